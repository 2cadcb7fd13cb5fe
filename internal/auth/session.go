package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie binds session tokens to an HTTP cookie. It is a thin
// boundary adapter: no business logic lives here.
type SessionCookie struct {
	name   string
	ttl    time.Duration
	secure bool
}

// NewSessionCookie configures the cookie adapter. The max-age matches the
// token TTL so cookie and token expire together.
func NewSessionCookie(name string, ttl time.Duration, secure bool) *SessionCookie {
	if name == "" {
		name = "auth-token"
	}
	return &SessionCookie{name: name, ttl: ttl, secure: secure}
}

// Name returns the cookie name.
func (s *SessionCookie) Name() string {
	return s.name
}

// Set writes the session cookie on the outgoing response.
func (s *SessionCookie) Set(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     s.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		Expires:  time.Now().Add(s.ttl),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Clear expires the session cookie immediately (logout).
func (s *SessionCookie) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Read returns the raw token from the incoming request, or "".
func (s *SessionCookie) Read(c *fiber.Ctx) string {
	return c.Cookies(s.name)
}
