package model

import (
	"context"

	"github.com/motorq-lab/motorq/pkg/domain/types"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	authContextKey contextKey = "authContext"
)

// AuthContext contains authentication information that should be preserved
// across async boundaries
type AuthContext struct {
	UserID    types.UserID    `json:"user_id,omitempty"`
	Role      types.Role      `json:"role,omitempty"`
	SessionID types.SessionID `json:"session_id,omitempty"`
}

// WithAuthContext adds AuthContext to the context
func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	if authCtx == nil {
		return ctx
	}
	return context.WithValue(ctx, authContextKey, authCtx)
}

// GetAuthContext retrieves AuthContext from the context
func GetAuthContext(ctx context.Context) (*AuthContext, bool) {
	authCtx, ok := ctx.Value(authContextKey).(*AuthContext)
	return authCtx, ok
}

// Clone creates a deep copy of the AuthContext
func (a *AuthContext) Clone() *AuthContext {
	if a == nil {
		return nil
	}
	return &AuthContext{
		UserID:    a.UserID,
		Role:      a.Role,
		SessionID: a.SessionID,
	}
}
