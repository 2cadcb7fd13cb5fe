package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/support-desk/helpdesk/internal/domain"
)

// TicketListKey names the cached listing view for one owner.
func TicketListKey(ownerID string) string {
	return "views:tickets:" + ownerID
}

// TicketViewKey names the cached detail view for one ticket.
func TicketViewKey(id int64) string {
	return "views:ticket:" + strconv.FormatInt(id, 10)
}

// ViewCache holds rendered ticket views. All operations are advisory and
// best-effort: a cache failure never fails the calling operation.
type ViewCache interface {
	GetTicketList(ctx context.Context, ownerID string) ([]domain.Ticket, bool)
	SetTicketList(ctx context.Context, ownerID string, tickets []domain.Ticket)
	GetTicket(ctx context.Context, id int64) (*domain.Ticket, bool)
	SetTicket(ctx context.Context, ticket *domain.Ticket)
	Invalidate(ctx context.Context, keys ...string)
}

type redisViewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisViewCache builds a redis-backed view cache.
func NewRedisViewCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) ViewCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisViewCache{client: client, ttl: ttl, logger: logger}
}

func (c *redisViewCache) GetTicketList(ctx context.Context, ownerID string) ([]domain.Ticket, bool) {
	payload, err := c.client.Get(ctx, TicketListKey(ownerID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("view cache get failed", zap.Error(err))
		}
		return nil, false
	}
	var tickets []domain.Ticket
	if err := json.Unmarshal(payload, &tickets); err != nil {
		return nil, false
	}
	return tickets, true
}

func (c *redisViewCache) SetTicketList(ctx context.Context, ownerID string, tickets []domain.Ticket) {
	payload, err := json.Marshal(tickets)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, TicketListKey(ownerID), payload, c.ttl).Err(); err != nil {
		c.logger.Debug("view cache set failed", zap.Error(err))
	}
}

func (c *redisViewCache) GetTicket(ctx context.Context, id int64) (*domain.Ticket, bool) {
	payload, err := c.client.Get(ctx, TicketViewKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("view cache get failed", zap.Error(err))
		}
		return nil, false
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(payload, &ticket); err != nil {
		return nil, false
	}
	return &ticket, true
}

func (c *redisViewCache) SetTicket(ctx context.Context, ticket *domain.Ticket) {
	if ticket == nil {
		return
	}
	payload, err := json.Marshal(ticket)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, TicketViewKey(ticket.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Debug("view cache set failed", zap.Error(err))
	}
}

func (c *redisViewCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Debug("view cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

type noopViewCache struct{}

// NewNoopViewCache returns a cache that stores nothing. Used when redis
// is not reachable at startup.
func NewNoopViewCache() ViewCache {
	return noopViewCache{}
}

func (noopViewCache) GetTicketList(context.Context, string) ([]domain.Ticket, bool) { return nil, false }
func (noopViewCache) SetTicketList(context.Context, string, []domain.Ticket)       {}
func (noopViewCache) GetTicket(context.Context, int64) (*domain.Ticket, bool)      { return nil, false }
func (noopViewCache) SetTicket(context.Context, *domain.Ticket)                    {}
func (noopViewCache) Invalidate(context.Context, ...string)                        {}
