package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/support-desk/helpdesk/internal/cache"
	"github.com/support-desk/helpdesk/internal/domain"
	"github.com/support-desk/helpdesk/internal/events"
	"github.com/support-desk/helpdesk/internal/observability"
	"github.com/support-desk/helpdesk/internal/repository"
	"github.com/support-desk/helpdesk/pkg/util"
)

// TicketService coordinates the ticket lifecycle: create, list, fetch and
// close, each scoped to the acting user.
type TicketService struct {
	tickets    repository.TicketRepository
	viewCache  cache.ViewCache
	dispatcher events.Dispatcher
	eventLog   *observability.EventLogger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	ViewCache  cache.ViewCache
	Dispatcher events.Dispatcher
	EventLog   *observability.EventLogger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Description string
	Priority    string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	viewCache := deps.ViewCache
	if viewCache == nil {
		viewCache = cache.NewNoopViewCache()
	}
	eventLog := deps.EventLog
	if eventLog == nil {
		eventLog = observability.NewEventLogger(nil)
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		viewCache:  viewCache,
		dispatcher: deps.Dispatcher,
		eventLog:   eventLog,
	}
}

// Create persists a new OPEN ticket owned by the user.
func (s *TicketService) Create(ctx context.Context, userID string, input TicketCreateInput) (*domain.Ticket, error) {
	missing := missingFields(input)
	if len(missing) > 0 {
		s.eventLog.LogEvent("Validation Error: missing ticket fields", observability.CategoryTicket,
			map[string]any{"user_id": userID, "missing": missing}, observability.SeverityWarning, nil)
		return nil, util.NewValidationError(
			"Missing required fields: "+strings.Join(missing, ", "),
			map[string]any{"missing": missing},
		)
	}

	ticket := &domain.Ticket{
		Subject:     strings.TrimSpace(input.Subject),
		Description: strings.TrimSpace(input.Description),
		Priority:    domain.TicketPriority(strings.TrimSpace(input.Priority)),
		Status:      domain.TicketStatusOpen,
		UserID:      userID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.eventLog.LogEvent("Unexpected error occurred while creating ticket", observability.CategoryTicket,
			map[string]any{"user_id": userID}, observability.SeverityError, err)
		return nil, util.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		UserID:   userID,
		Payload: events.TicketCreatedPayload{
			Subject:  ticket.Subject,
			Priority: ticket.Priority,
		},
	})
	s.eventLog.LogEvent("Ticket created successfully", observability.CategoryTicket,
		map[string]any{"ticket_id": ticket.ID, "user_id": userID}, observability.SeverityInfo, nil)
	return ticket, nil
}

// ListOwned returns the user's tickets, newest first.
func (s *TicketService) ListOwned(ctx context.Context, userID string) ([]domain.Ticket, error) {
	if tickets, ok := s.viewCache.GetTicketList(ctx, userID); ok {
		return tickets, nil
	}

	tickets, err := s.tickets.ListByOwner(ctx, userID)
	if err != nil {
		s.eventLog.LogEvent("Unexpected error occurred while fetching tickets", observability.CategoryTicket,
			map[string]any{"user_id": userID}, observability.SeverityError, err)
		return nil, util.NewInternalError(err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}

	s.viewCache.SetTicketList(ctx, userID, tickets)
	s.eventLog.LogEvent("Fetched ticket list", observability.CategoryTicket,
		map[string]any{"user_id": userID, "count": len(tickets)}, observability.SeverityInfo, nil)
	return tickets, nil
}

// Get fetches a ticket by id; an unknown id yields (nil, nil), not an
// error. Ownership is not checked: any known id resolves.
func (s *TicketService) Get(ctx context.Context, id int64) (*domain.Ticket, error) {
	if ticket, ok := s.viewCache.GetTicket(ctx, id); ok {
		return ticket, nil
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.eventLog.LogEvent("Ticket not found", observability.CategoryTicket,
				map[string]any{"ticket_id": id}, observability.SeverityWarning, nil)
			return nil, nil
		}
		s.eventLog.LogEvent("Unexpected error occurred while fetching ticket", observability.CategoryTicket,
			map[string]any{"ticket_id": id}, observability.SeverityError, err)
		return nil, util.NewInternalError(err)
	}

	s.viewCache.SetTicket(ctx, ticket)
	return ticket, nil
}

// Close transitions the ticket to CLOSED on behalf of its owner. A ticket
// that does not exist and a ticket owned by someone else answer
// identically, so callers cannot probe for foreign ticket ids. Closing an
// already-closed owned ticket is an idempotent success.
func (s *TicketService) Close(ctx context.Context, userID string, id int64) (*domain.Ticket, error) {
	closed, err := s.tickets.CloseIfOpen(ctx, id, userID)
	if err != nil {
		s.eventLog.LogEvent("Unexpected error occurred while closing ticket", observability.CategoryTicket,
			map[string]any{"ticket_id": id, "user_id": userID}, observability.SeverityError, err)
		return nil, util.NewInternalError(err)
	}

	if !closed {
		ticket, err := s.tickets.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, s.closeDenied(id, userID)
			}
			s.eventLog.LogEvent("Unexpected error occurred while closing ticket", observability.CategoryTicket,
				map[string]any{"ticket_id": id, "user_id": userID}, observability.SeverityError, err)
			return nil, util.NewInternalError(err)
		}
		if ticket.UserID != userID {
			return nil, s.closeDenied(id, userID)
		}
		// already closed by an earlier call or a concurrent racer
		s.eventLog.LogEvent("Ticket already closed", observability.CategoryTicket,
			map[string]any{"ticket_id": id, "user_id": userID}, observability.SeverityInfo, nil)
		return ticket, nil
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		s.eventLog.LogEvent("Unexpected error occurred while closing ticket", observability.CategoryTicket,
			map[string]any{"ticket_id": id, "user_id": userID}, observability.SeverityError, err)
		return nil, util.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketClosed,
		TicketID: ticket.ID,
		UserID:   userID,
		Payload: events.TicketClosedPayload{
			OldStatus: domain.TicketStatusOpen,
			NewStatus: domain.TicketStatusClosed,
		},
	})
	s.eventLog.LogEvent("Ticket closed successfully", observability.CategoryTicket,
		map[string]any{"ticket_id": ticket.ID, "user_id": userID}, observability.SeverityInfo, nil)
	return ticket, nil
}

func (s *TicketService) closeDenied(id int64, userID string) error {
	s.eventLog.LogEvent("Unauthorized ticket close attempt", observability.CategoryTicket,
		map[string]any{"ticket_id": id, "user_id": userID}, observability.SeverityWarning, nil)
	return util.NewUnauthorized("You are not authorized to close this ticket")
}

func missingFields(input TicketCreateInput) []string {
	var missing []string
	if strings.TrimSpace(input.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(input.Priority) == "" {
		missing = append(missing, "priority")
	}
	return missing
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
