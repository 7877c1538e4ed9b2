package model

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/motorq-lab/motorq/pkg/domain/types"
)

// Session represents an authenticated user session
type Session struct {
	ID        types.SessionID     `json:"id" firestore:"id"`
	Secret    types.SessionSecret `json:"-" firestore:"secret"`
	UserID    types.UserID        `json:"user_id" firestore:"user_id"`
	CreatedAt time.Time           `json:"created_at" firestore:"created_at"`
	ExpiresAt time.Time           `json:"expires_at" firestore:"expires_at"`
}

// NewSession creates a new Session with UUID v7 ID and random Secret
func NewSession(userID types.UserID, duration time.Duration) (*Session, error) {
	sessionID, err := types.NewSessionID()
	if err != nil {
		return nil, err
	}

	// 24 random bytes encode to a 32-character secret
	secret, err := generateRandomSecret(24)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        sessionID,
		Secret:    types.SessionSecret(secret),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	}, nil
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsValid checks if the session is valid (not expired and has proper fields)
func (s *Session) IsValid() bool {
	return s.ID != "" && s.Secret != "" && s.UserID != "" && !s.IsExpired()
}

// generateRandomSecret generates a random base64-encoded string
func generateRandomSecret(byteLength int) (string, error) {
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	// URL-safe base64 without padding for cleaner cookie values
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
