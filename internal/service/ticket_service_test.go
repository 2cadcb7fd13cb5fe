package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/support-desk/helpdesk/internal/domain"
	"github.com/support-desk/helpdesk/internal/events"
	"github.com/support-desk/helpdesk/pkg/util"
)

type memTicketRepo struct {
	mu      sync.Mutex
	tickets map[int64]*domain.Ticket
	nextID  int64
	now     time.Time
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{
		tickets: make(map[int64]*domain.Ticket),
		now:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.now = r.now.Add(time.Minute)
	ticket.ID = r.nextID
	ticket.CreatedAt = r.now
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *memTicketRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.UserID == ownerID {
			result = append(result, *ticket)
		}
	}
	// newest first, as the SQL ORDER BY does
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].CreatedAt.After(result[i].CreatedAt) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func (r *memTicketRepo) CloseIfOpen(_ context.Context, id int64, ownerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok || ticket.UserID != ownerID || ticket.Status != domain.TicketStatusOpen {
		return false, nil
	}
	closedAt := r.now.Add(time.Minute)
	ticket.Status = domain.TicketStatusClosed
	ticket.ClosedAt = &closedAt
	return true, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

func newTicketService(repo *memTicketRepo, dispatcher events.Dispatcher) *TicketService {
	return NewTicketService(TicketDependencies{
		TicketRepo: repo,
		Dispatcher: dispatcher,
	})
}

func TestTicketService_Create(t *testing.T) {
	t.Parallel()

	repo := newMemTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := newTicketService(repo, dispatcher)

	ticket, err := svc.Create(context.Background(), "u1", TicketCreateInput{
		Subject:     "Printer broken",
		Description: "Won't turn on",
		Priority:    "high",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ticket.ID)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, "u1", ticket.UserID)

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketCreated, published[0].Type)
	assert.Equal(t, ticket.ID, published[0].TicketID)
	assert.Equal(t, "u1", published[0].UserID)
}

func TestTicketService_CreateMissingFields(t *testing.T) {
	t.Parallel()

	svc := newTicketService(newMemTicketRepo(), nil)

	_, err := svc.Create(context.Background(), "u1", TicketCreateInput{
		Subject:     "Printer broken",
		Description: "   ",
	})
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "VALIDATION_FAILED"))
	// the message names every missing field
	assert.Contains(t, err.Error(), "description")
	assert.Contains(t, err.Error(), "priority")
	assert.NotContains(t, err.Error(), "subject")
}

func TestTicketService_ListOwnedNewestFirst(t *testing.T) {
	t.Parallel()

	repo := newMemTicketRepo()
	svc := newTicketService(repo, nil)
	ctx := context.Background()

	for _, subject := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, "u1", TicketCreateInput{
			Subject: subject, Description: "d", Priority: "low",
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "u2", TicketCreateInput{
		Subject: "other owner", Description: "d", Priority: "low",
	})
	require.NoError(t, err)

	tickets, err := svc.ListOwned(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	assert.Equal(t, "third", tickets[0].Subject)
	assert.Equal(t, "second", tickets[1].Subject)
	assert.Equal(t, "first", tickets[2].Subject)
}

func TestTicketService_ListOwnedEmptyForStranger(t *testing.T) {
	t.Parallel()

	repo := newMemTicketRepo()
	svc := newTicketService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", TicketCreateInput{
		Subject: "mine", Description: "d", Priority: "low",
	})
	require.NoError(t, err)

	tickets, err := svc.ListOwned(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestTicketService_GetAbsentIsNone(t *testing.T) {
	t.Parallel()

	svc := newTicketService(newMemTicketRepo(), nil)

	ticket, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, ticket)
}

func TestTicketService_GetDoesNotCheckOwnership(t *testing.T) {
	t.Parallel()

	repo := newMemTicketRepo()
	svc := newTicketService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", TicketCreateInput{
		Subject: "mine", Description: "d", Priority: "low",
	})
	require.NoError(t, err)

	// fetch-by-id is not owner-scoped; this mirrors observed behavior
	ticket, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, ticket)
	assert.Equal(t, "u1", ticket.UserID)
}

func TestTicketService_CloseByOwner(t *testing.T) {
	t.Parallel()

	repo := newMemTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := newTicketService(repo, dispatcher)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", TicketCreateInput{
		Subject: "s", Description: "d", Priority: "high",
	})
	require.NoError(t, err)

	closed, err := svc.Close(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	published := dispatcher.published()
	require.Len(t, published, 2)
	assert.Equal(t, events.EventTicketClosed, published[1].Type)
}

func TestTicketService_CloseIdempotent(t *testing.T) {
	t.Parallel()

	repo := newMemTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := newTicketService(repo, dispatcher)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", TicketCreateInput{
		Subject: "s", Description: "d", Priority: "high",
	})
	require.NoError(t, err)

	_, err = svc.Close(ctx, "u1", created.ID)
	require.NoError(t, err)

	// the second close succeeds and changes nothing
	again, err := svc.Close(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, again.Status)

	var closeEvents int
	for _, event := range dispatcher.published() {
		if event.Type == events.EventTicketClosed {
			closeEvents++
		}
	}
	assert.Equal(t, 1, closeEvents)
}

func TestTicketService_CloseOwnershipIsolation(t *testing.T) {
	t.Parallel()

	repo := newMemTicketRepo()
	svc := newTicketService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", TicketCreateInput{
		Subject: "s", Description: "d", Priority: "high",
	})
	require.NoError(t, err)

	_, err = svc.Close(ctx, "u2", created.ID)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "UNAUTHORIZED"))

	ticket, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
}

func TestTicketService_CloseMissingLooksLikeForeign(t *testing.T) {
	t.Parallel()

	repo := newMemTicketRepo()
	svc := newTicketService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", TicketCreateInput{
		Subject: "s", Description: "d", Priority: "high",
	})
	require.NoError(t, err)

	_, foreignErr := svc.Close(ctx, "u2", created.ID)
	_, missingErr := svc.Close(ctx, "u2", 9999)

	// nonexistence and ownership mismatch answer identically
	require.Error(t, foreignErr)
	require.Error(t, missingErr)
	assert.Equal(t, foreignErr.Error(), missingErr.Error())
}
