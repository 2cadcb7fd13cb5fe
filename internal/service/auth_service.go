package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/support-desk/helpdesk/internal/auth"
	"github.com/support-desk/helpdesk/internal/config"
	"github.com/support-desk/helpdesk/internal/domain"
	"github.com/support-desk/helpdesk/internal/observability"
	"github.com/support-desk/helpdesk/internal/repository"
	"github.com/support-desk/helpdesk/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	eventLog   *observability.EventLogger
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	EventLog *observability.EventLogger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	eventLog := deps.EventLog
	if eventLog == nil {
		eventLog = observability.NewEventLogger(nil)
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL()),
		eventLog:   eventLog,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new end-user account and issues a session token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	if name == "" || email == "" || password == "" {
		s.eventLog.LogEvent("Validation Error: missing register fields", observability.CategoryAuth,
			map[string]any{"name": name, "email": email}, observability.SeverityWarning, nil)
		return nil, "", time.Time{}, util.NewValidationError("All fields are required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		s.eventLog.LogEvent("Registration failed: user already exists", observability.CategoryAuth,
			map[string]any{"email": email}, observability.SeverityWarning, nil)
		return nil, "", time.Time{}, util.NewConflict("User already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		s.eventLog.LogEvent("Unexpected error occurred while registering user", observability.CategoryAuth,
			map[string]any{"email": email}, observability.SeverityError, err)
		return nil, "", time.Time{}, util.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		s.eventLog.LogEvent("Unexpected error occurred while registering user", observability.CategoryAuth,
			map[string]any{"email": email}, observability.SeverityError, err)
		return nil, "", time.Time{}, util.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// the pre-check races with concurrent registrations; the unique
		// constraint is the authority
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.eventLog.LogEvent("Registration failed: user already exists", observability.CategoryAuth,
				map[string]any{"email": email}, observability.SeverityWarning, nil)
			return nil, "", time.Time{}, util.NewConflict("User already exists", nil)
		}
		s.eventLog.LogEvent("Unexpected error occurred while registering user", observability.CategoryAuth,
			map[string]any{"email": email}, observability.SeverityError, err)
		return nil, "", time.Time{}, util.NewInternalError(err)
	}

	token, exp, err := s.tokenMgr.Generate(user.ID)
	if err != nil {
		s.eventLog.LogEvent("Unexpected error occurred while registering user", observability.CategoryAuth,
			map[string]any{"user_id": user.ID, "email": email}, observability.SeverityError, err)
		return nil, "", time.Time{}, util.NewInternalError(err)
	}

	s.eventLog.LogEvent("User registered successfully", observability.CategoryAuth,
		map[string]any{"user_id": user.ID, "email": email}, observability.SeverityInfo, nil)
	return user, token, exp, nil
}

// Login authenticates an end-user and issues a session token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if email == "" || password == "" {
		s.eventLog.LogEvent("Validation Error: missing login fields", observability.CategoryAuth,
			map[string]any{"email": email}, observability.SeverityWarning, nil)
		return nil, "", time.Time{}, util.NewValidationError("Email and password fields are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.eventLog.LogEvent("Login failed: user not found", observability.CategoryAuth,
				map[string]any{"email": email}, observability.SeverityWarning, nil)
			return nil, "", time.Time{}, util.NewUnauthorized("Invalid email or password")
		}
		s.eventLog.LogEvent("Unexpected error occurred while logging in user", observability.CategoryAuth,
			map[string]any{"email": email}, observability.SeverityError, err)
		return nil, "", time.Time{}, util.NewInternalError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.eventLog.LogEvent("Login failed: invalid password", observability.CategoryAuth,
			map[string]any{"email": email}, observability.SeverityWarning, nil)
		return nil, "", time.Time{}, util.NewUnauthorized("Invalid email or password")
	}

	token, exp, err := s.tokenMgr.Generate(user.ID)
	if err != nil {
		s.eventLog.LogEvent("Unexpected error occurred while logging in user", observability.CategoryAuth,
			map[string]any{"user_id": user.ID, "email": email}, observability.SeverityError, err)
		return nil, "", time.Time{}, util.NewInternalError(err)
	}

	s.eventLog.LogEvent("User logged in successfully", observability.CategoryAuth,
		map[string]any{"user_id": user.ID, "email": email}, observability.SeverityInfo, nil)
	return user, token, exp, nil
}

// Logout is a no-op server-side: tokens are stateless, so ending a session
// is purely a cookie-clearing concern at the transport boundary.
func (s *AuthService) Logout(_ context.Context, userID string) {
	s.eventLog.LogEvent("User logged out successfully", observability.CategoryAuth,
		map[string]any{"user_id": userID}, observability.SeverityInfo, nil)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
