package types

import (
	"github.com/google/uuid"
)

// UserID represents a user identifier
type UserID string

// String returns the string representation
func (id UserID) String() string {
	return string(id)
}

// NewUserID creates a new UserID
func NewUserID() UserID {
	return UserID(uuid.New().String())
}

// IssueID represents an issue identifier
type IssueID string

// String returns the string representation
func (id IssueID) String() string {
	return string(id)
}

// NewIssueID creates a new IssueID
func NewIssueID() IssueID {
	return IssueID(uuid.New().String())
}

// SessionID represents a session identifier
type SessionID string

// String returns the string representation
func (id SessionID) String() string {
	return string(id)
}

// NewSessionID creates a new SessionID using UUID v7
func NewSessionID() (SessionID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return SessionID(id.String()), nil
}

// SessionSecret represents a session secret token
type SessionSecret string

// String returns the string representation
func (s SessionSecret) String() string {
	return string(s)
}

// Role represents a user role
type Role string

const (
	RoleOwner    Role = "owner"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// CanViewAllIssues returns true if the role may read issues of all users
func (r Role) CanViewAllIssues() bool {
	return r == RoleProvider || r == RoleAdmin
}
