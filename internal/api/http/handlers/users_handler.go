package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/support-desk/helpdesk/internal/api/dto"
	"github.com/support-desk/helpdesk/internal/auth"
	"github.com/support-desk/helpdesk/internal/service"
	"github.com/support-desk/helpdesk/pkg/util"
)

// UsersHandler exposes auth endpoints: register, login, logout. Every
// response is the uniform {success, message} shape; no service error
// crosses this boundary.
type UsersHandler struct {
	auth   *service.AuthService
	cookie *auth.SessionCookie
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, cookie *auth.SessionCookie) *UsersHandler {
	return &UsersHandler{auth: authService, cookie: cookie}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return actionFailure(c, http.StatusBadRequest, "All fields are required")
	}

	_, token, _, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return actionError(c, err, "Failed to register user")
	}

	h.cookie.Set(c, token)
	return c.Status(http.StatusCreated).JSON(dto.ActionResponse{
		Success: true,
		Message: "User registered successfully",
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return actionFailure(c, http.StatusBadRequest, "Email and password fields are required")
	}

	_, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return actionError(c, err, "Failed to log in user")
	}

	h.cookie.Set(c, token)
	return c.JSON(dto.ActionResponse{
		Success: true,
		Message: "User logged in successfully",
	})
}

// Logout handles POST /auth/logout. Tokens are stateless, so logout only
// clears the client cookie.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	userID := ""
	if user, ok := auth.CurrentUser(c); ok {
		userID = user.ID
	}
	h.auth.Logout(c.Context(), userID)
	h.cookie.Clear(c)
	return c.JSON(dto.ActionResponse{
		Success: true,
		Message: "User logged out successfully",
	})
}

func actionFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ActionResponse{Success: false, Message: message})
}

// actionError translates a service error into the uniform result shape.
// Internal causes stay in the log sink; the caller sees the fallback.
func actionError(c *fiber.Ctx, err error, fallback string) error {
	domainErr := util.ToDomainError(err)
	message := domainErr.Message
	if domainErr.Code == "INTERNAL_ERROR" {
		message = fallback
	}
	return actionFailure(c, domainErr.HTTPStatus, message)
}
