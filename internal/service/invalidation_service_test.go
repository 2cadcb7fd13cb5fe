package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/support-desk/helpdesk/internal/cache"
	"github.com/support-desk/helpdesk/internal/domain"
	"github.com/support-desk/helpdesk/internal/events"
)

type recordingCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *recordingCache) GetTicketList(context.Context, string) ([]domain.Ticket, bool) {
	return nil, false
}
func (c *recordingCache) SetTicketList(context.Context, string, []domain.Ticket) {}
func (c *recordingCache) GetTicket(context.Context, int64) (*domain.Ticket, bool) {
	return nil, false
}
func (c *recordingCache) SetTicket(context.Context, *domain.Ticket) {}

func (c *recordingCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, keys...)
}

func (c *recordingCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.invalidated...)
}

func TestInvalidationService_TicketCreated(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewInMemoryDispatcher()
	viewCache := &recordingCache{}
	NewInvalidationService(dispatcher, viewCache, nil).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: 7,
		UserID:   "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{cache.TicketListKey("u1")}, viewCache.keys())
}

func TestInvalidationService_TicketClosed(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewInMemoryDispatcher()
	viewCache := &recordingCache{}
	NewInvalidationService(dispatcher, viewCache, nil).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketClosed,
		TicketID: 7,
		UserID:   "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		cache.TicketListKey("u1"),
		cache.TicketViewKey(7),
	}, viewCache.keys())
}

func TestTicketService_CloseInvalidatesViews(t *testing.T) {
	t.Parallel()

	repo := newMemTicketRepo()
	dispatcher := events.NewInMemoryDispatcher()
	viewCache := &recordingCache{}
	NewInvalidationService(dispatcher, viewCache, nil).RegisterHandlers()

	svc := NewTicketService(TicketDependencies{
		TicketRepo: repo,
		Dispatcher: dispatcher,
	})
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", TicketCreateInput{
		Subject: "s", Description: "d", Priority: "low",
	})
	require.NoError(t, err)

	_, err = svc.Close(ctx, "u1", created.ID)
	require.NoError(t, err)

	assert.Contains(t, viewCache.keys(), cache.TicketListKey("u1"))
	assert.Contains(t, viewCache.keys(), cache.TicketViewKey(created.ID))
}
