package observability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEventLogger_LogEvent(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	eventLog := NewEventLogger(zap.New(core))

	eventLog.LogEvent("User registered successfully", CategoryAuth,
		map[string]any{"user_id": "u1"}, SeverityInfo, nil)
	eventLog.LogEvent("Validation Error: missing ticket fields", CategoryTicket,
		map[string]any{"missing": []string{"subject"}}, SeverityWarning, nil)
	eventLog.LogEvent("Unexpected error occurred while closing ticket", CategoryTicket,
		nil, SeverityError, errors.New("boom"))

	entries := logs.All()
	assert.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "auth", entries[0].ContextMap()["category"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
}

func TestEventLogger_NilSafe(t *testing.T) {
	t.Parallel()

	var eventLog *EventLogger
	// must never reach back into the caller
	eventLog.LogEvent("ignored", CategoryAuth, nil, SeverityInfo, nil)

	NewEventLogger(nil).LogEvent("ignored", CategoryAuth, nil, SeverityError, errors.New("boom"))
}
