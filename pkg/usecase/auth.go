package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/interfaces"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
)

const sessionDuration = 24 * time.Hour

// Auth implements AuthUseCase with repository-based storage
type Auth struct {
	repo interfaces.Repository
}

// NewAuth creates a new Auth use case
func NewAuth(repo interfaces.Repository) AuthUseCase {
	return &Auth{
		repo: repo,
	}
}

// Register creates a new user account
func (a *Auth) Register(ctx context.Context, name, email, password string, role types.Role) (*model.User, error) {
	logger := ctxlog.From(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	// Reject duplicate registration up front
	if _, err := a.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, goerr.Wrap(model.ErrEmailTaken, "registration rejected", goerr.V("email", email))
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, goerr.Wrap(err, "failed to check existing user")
	}

	user, err := model.NewUser(name, email, password, role)
	if err != nil {
		return nil, err
	}

	if err := a.repo.SaveUser(ctx, user); err != nil {
		return nil, goerr.Wrap(err, "failed to save user")
	}

	logger.Info("Created new user",
		"userID", user.ID,
		"email", user.Email,
		"role", user.Role,
	)

	return user, nil
}

// Login verifies credentials and creates a new session
func (a *Auth) Login(ctx context.Context, email, password string) (*model.Session, error) {
	logger := ctxlog.From(ctx)

	if email == "" || password == "" {
		return nil, goerr.New("email and password are required")
	}

	user, err := a.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, goerr.Wrap(err, "login failed")
	}

	if err := user.VerifyPassword(password); err != nil {
		return nil, goerr.Wrap(err, "login failed")
	}

	session, err := model.NewSession(user.ID, sessionDuration)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create session")
	}

	if err := a.repo.SaveSession(ctx, session); err != nil {
		return nil, goerr.Wrap(err, "failed to save session")
	}

	logger.Info("Created new session",
		"sessionID", session.ID,
		"userID", user.ID,
		"expiresAt", session.ExpiresAt,
	)

	return session, nil
}

// ValidateSession validates a session by ID and secret
func (a *Auth) ValidateSession(ctx context.Context, sessionID, sessionSecret string) (*model.Session, error) {
	if sessionID == "" || sessionSecret == "" {
		return nil, goerr.New("session ID and secret are required")
	}

	session, err := a.repo.GetSession(ctx, types.SessionID(sessionID))
	if err != nil {
		return nil, goerr.Wrap(err, "session not found")
	}

	if session.Secret.String() != sessionSecret {
		return nil, goerr.New("invalid session secret")
	}

	if session.IsExpired() {
		return nil, goerr.New("session expired")
	}

	return session, nil
}

// DeleteSession deletes a session
func (a *Auth) DeleteSession(ctx context.Context, sessionID string) error {
	logger := ctxlog.From(ctx)

	if sessionID == "" {
		return goerr.New("session ID is required")
	}

	if err := a.repo.DeleteSession(ctx, types.SessionID(sessionID)); err != nil {
		return goerr.Wrap(err, "failed to delete session")
	}

	logger.Info("Deleted session",
		"sessionID", sessionID,
	)

	return nil
}

// GetUserFromSession gets user information from a session
func (a *Auth) GetUserFromSession(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, goerr.New("session ID is required")
	}

	session, err := a.repo.GetSession(ctx, types.SessionID(sessionID))
	if err != nil {
		return nil, goerr.Wrap(err, "session not found")
	}

	if session.IsExpired() {
		return nil, goerr.New("session expired")
	}

	user, err := a.repo.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, goerr.Wrap(err, "user not found")
	}

	return user, nil
}
