package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/support-desk/helpdesk/internal/cache"
	"github.com/support-desk/helpdesk/internal/events"
)

// InvalidationService drops stale ticket views when domain events fire.
// Invalidation is advisory and best-effort; failures are logged and
// swallowed.
type InvalidationService struct {
	dispatcher events.Dispatcher
	viewCache  cache.ViewCache
	logger     *zap.Logger
}

// NewInvalidationService creates the service.
func NewInvalidationService(dispatcher events.Dispatcher, viewCache cache.ViewCache, logger *zap.Logger) *InvalidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvalidationService{
		dispatcher: dispatcher,
		viewCache:  viewCache,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to ticket events.
func (s *InvalidationService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTicketCreated, s.handleTicketCreated)
	s.dispatcher.Subscribe(events.EventTicketClosed, s.handleTicketClosed)
}

func (s *InvalidationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	keys := []string{cache.TicketListKey(event.UserID)}
	s.viewCache.Invalidate(ctx, keys...)
	s.logger.Debug("invalidated views after ticket created",
		zap.Int64("ticket_id", event.TicketID),
		zap.Strings("keys", keys))
	return nil
}

func (s *InvalidationService) handleTicketClosed(ctx context.Context, event events.Event) error {
	keys := []string{
		cache.TicketListKey(event.UserID),
		cache.TicketViewKey(event.TicketID),
	}
	s.viewCache.Invalidate(ctx, keys...)
	s.logger.Debug("invalidated views after ticket closed",
		zap.Int64("ticket_id", event.TicketID),
		zap.Strings("keys", keys))
	return nil
}
