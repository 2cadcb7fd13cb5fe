package observability

import (
	"go.uber.org/zap"
)

// Severity grades an operation event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event categories used across the service.
const (
	CategoryAuth   = "auth"
	CategoryTicket = "ticket"
)

// EventLogger emits one structured record per operation branch: validation
// failure, auth failure, not-found, success, unexpected error. It is
// fire-and-forget and must never propagate a failure into the caller.
type EventLogger struct {
	logger *zap.Logger
}

// NewEventLogger wraps a zap logger.
func NewEventLogger(logger *zap.Logger) *EventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventLogger{logger: logger}
}

// LogEvent records a domain event with its category, severity and context.
func (e *EventLogger) LogEvent(message, category string, context map[string]any, severity Severity, err error) {
	if e == nil || e.logger == nil {
		return
	}
	defer func() {
		// a log sink failure must not reach the operation boundary
		_ = recover()
	}()

	fields := make([]zap.Field, 0, len(context)+2)
	fields = append(fields, zap.String("category", category))
	for key, val := range context {
		fields = append(fields, zap.Any(key, val))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	switch severity {
	case SeverityError:
		e.logger.Error(message, fields...)
	case SeverityWarning:
		e.logger.Warn(message, fields...)
	default:
		e.logger.Info(message, fields...)
	}
}
