package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	metrics.RecordRequest("/tickets", "GET", 200, 5*time.Millisecond)
	metrics.RecordRequest("/tickets", "GET", 200, 7*time.Millisecond)
	metrics.RecordRequest("/tickets", "POST", 201, time.Millisecond)

	assert.Equal(t, int64(2), metrics.RequestTotal("/tickets", "GET", 200))
	assert.Equal(t, int64(1), metrics.RequestTotal("/tickets", "POST", 201))
	assert.Equal(t, int64(0), metrics.RequestTotal("/tickets", "DELETE", 200))
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var metrics *Metrics
	metrics.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	metrics.RecordError("/tickets", "GET", "INTERNAL_ERROR")
	assert.Equal(t, int64(0), metrics.RequestTotal("/tickets", "GET", 200))
}
