package worker

import (
	"github.com/support-desk/helpdesk/internal/service"
)

// StartInvalidationWorker registers view invalidation handlers.
func StartInvalidationWorker(invalidationService *service.InvalidationService) {
	if invalidationService == nil {
		return
	}
	invalidationService.RegisterHandlers()
}
