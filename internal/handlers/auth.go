package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/crossword-server/internal/constants"
	"github.com/yukikurage/crossword-server/internal/dto"
	apierrors "github.com/yukikurage/crossword-server/internal/errors"
	"github.com/yukikurage/crossword-server/internal/middleware"
	"github.com/yukikurage/crossword-server/internal/rpc"
	"github.com/yukikurage/crossword-server/internal/services"
	"github.com/yukikurage/crossword-server/internal/session"
)

// SessionLookup exposes the live session behind a token.
type SessionLookup interface {
	Lookup(token string) (session.Info, bool)
}

// AuthHandler coordinates authentication-related actions.
type AuthHandler struct {
	authService *services.AuthService
	sessions    SessionLookup
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, sessions SessionLookup) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account. It does not log the user in.
func (h *AuthHandler) Register(ctx context.Context, call *rpc.Call) rpc.Result {
	req, err := rpc.Bind[credentialsRequest](call)
	if err != nil {
		return rpc.Failure(err)
	}

	_, err = h.authService.Register(ctx, services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return respondAuthError(err)
	}

	return rpc.Success("Registration successful", nil)
}

// Login authenticates a user and opens a session.
func (h *AuthHandler) Login(ctx context.Context, call *rpc.Call) rpc.Result {
	req, err := rpc.Bind[credentialsRequest](call)
	if err != nil {
		return rpc.Failure(err)
	}
	if req.Username == "" || req.Password == "" {
		return rpc.Failure(apierrors.Validation("username", "Username and password cannot be empty"))
	}

	result, err := h.authService.Login(ctx, services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return respondAuthError(err)
	}

	return rpc.Success("Login successful", dto.LoginResponse{
		AuthToken: result.Session.Token,
		Username:  result.User.Username,
		ExpiresAt: result.Session.ExpiresAt,
	})
}

// Logout revokes the caller's session.
func (h *AuthHandler) Logout(ctx context.Context, call *rpc.Call) rpc.Result {
	if err := h.authService.Logout(ctx, call.Token); err != nil {
		return rpc.Failure(err)
	}
	return rpc.Success("Logged out successfully", nil)
}

// WhoAmI describes the session the caller presented.
func (h *AuthHandler) WhoAmI(ctx context.Context, call *rpc.Call) rpc.Result {
	userID, ok := middleware.GetUserID(call)
	if !ok {
		return rpc.Failure(apierrors.ErrAuthRequired)
	}
	info, ok := h.sessions.Lookup(call.Token)
	if !ok {
		return rpc.Failure(apierrors.ErrSessionExpired)
	}

	user, err := h.authService.GetUser(ctx, userID)
	if err != nil {
		return respondAuthError(err)
	}

	return rpc.Success("Session is active", dto.WhoAmIResponse{
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: info.ExpiresAt,
	})
}

func respondAuthError(err error) rpc.Result {
	switch {
	case errors.Is(err, services.ErrInvalidUsername):
		return rpc.Failure(apierrors.Validation("username", fmt.Sprintf("Username must be %d-%d letters or digits", constants.MinUsernameLength, constants.MaxUsernameLength)))
	case errors.Is(err, services.ErrPasswordTooShort):
		return rpc.Failure(apierrors.Validation("password", fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength)))
	case errors.Is(err, services.ErrUsernameTaken):
		return rpc.Failure(apierrors.Conflict("Username already exists"))
	case errors.Is(err, services.ErrInvalidCredentials):
		return rpc.Failure(apierrors.InvalidCredentials(""))
	case errors.Is(err, services.ErrUserNotFound):
		return rpc.Failure(apierrors.NotFound("User not found"))
	default:
		return rpc.Failure(err)
	}
}
