package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/types"
	"golang.org/x/crypto/bcrypt"
)

// User represents an account in the system
type User struct {
	ID           types.UserID `json:"id" firestore:"id"`
	Name         string       `json:"name" firestore:"name"`
	Email        string       `json:"email" firestore:"email"`
	PasswordHash string       `json:"-" firestore:"password_hash"`
	Role         types.Role   `json:"role" firestore:"role"`
	CreatedAt    time.Time    `json:"created_at" firestore:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" firestore:"updated_at"`
}

// NewUser creates a new User with a bcrypt-hashed password
func NewUser(name, email, password string, role types.Role) (*User, error) {
	if name == "" {
		return nil, goerr.New("name is required")
	}
	if email == "" {
		return nil, goerr.New("email is required")
	}
	if len(password) < 8 {
		return nil, goerr.New("password must be at least 8 characters")
	}
	if !role.IsValid() {
		return nil, goerr.New("invalid role", goerr.V("role", role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to hash password")
	}

	now := time.Now()
	return &User{
		ID:           types.NewUserID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// VerifyPassword checks the given password against the stored hash
func (u *User) VerifyPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return goerr.Wrap(err, "password mismatch")
	}
	return nil
}
