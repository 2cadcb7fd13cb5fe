package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCookie_Set(t *testing.T) {
	t.Parallel()

	cookie := NewSessionCookie("auth-token", 7*24*time.Hour, true)

	app := fiber.New()
	app.Post("/login", func(c *fiber.Ctx) error {
		cookie.Set(c, "token-value")
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	got := cookies[0]
	assert.Equal(t, "auth-token", got.Name)
	assert.Equal(t, "token-value", got.Value)
	assert.Equal(t, "/", got.Path)
	assert.True(t, got.HttpOnly)
	assert.True(t, got.Secure)
	assert.Equal(t, http.SameSiteLaxMode, got.SameSite)
	assert.Equal(t, int(7*24*time.Hour/time.Second), got.MaxAge)
}

func TestSessionCookie_Clear(t *testing.T) {
	t.Parallel()

	cookie := NewSessionCookie("auth-token", time.Hour, true)

	app := fiber.New()
	app.Post("/logout", func(c *fiber.Ctx) error {
		cookie.Clear(c)
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/logout", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	got := cookies[0]
	assert.Equal(t, "auth-token", got.Name)
	assert.Empty(t, got.Value)
	assert.True(t, got.Expires.Before(time.Now()))
}

func TestSessionCookie_Read(t *testing.T) {
	t.Parallel()

	cookie := NewSessionCookie("auth-token", time.Hour, true)

	app := fiber.New()
	app.Get("/read", func(c *fiber.Ctx) error {
		return c.SendString(cookie.Read(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/read", nil)
	req.AddCookie(&http.Cookie{Name: "auth-token", Value: "token-value"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "token-value", string(body[:n]))
}
