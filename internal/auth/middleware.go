package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/support-desk/helpdesk/internal/domain"
	"github.com/support-desk/helpdesk/internal/repository"
)

const currentUserKey = "current_user"

// SessionMiddleware resolves the current user from the session cookie.
// Resolution never fails the request: an absent cookie, an invalid or
// expired token, or a vanished user all leave the request anonymous.
type SessionMiddleware struct {
	tokens *TokenManager
	cookie *SessionCookie
	users  repository.UserRepository
	logger *zap.Logger
}

// NewSessionMiddleware constructs the resolver middleware.
func NewSessionMiddleware(tokens *TokenManager, cookie *SessionCookie, users repository.UserRepository, logger *zap.Logger) *SessionMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionMiddleware{tokens: tokens, cookie: cookie, users: users, logger: logger}
}

// Handle attaches the resolved user, if any, and always continues.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := m.cookie.Read(c)
	if token == "" {
		return c.Next()
	}

	userID, err := m.tokens.Parse(token)
	if err != nil {
		return c.Next()
	}

	user, err := m.users.GetByID(c.Context(), userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			m.logger.Warn("session user lookup failed", zap.String("user_id", userID), zap.Error(err))
		}
		return c.Next()
	}

	c.Locals(currentUserKey, user)
	return c.Next()
}

// CurrentUser retrieves the resolved user for this request.
func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(currentUserKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
