package model_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
)

func TestNewUser(t *testing.T) {
	user, err := model.NewUser("Alice", "alice@example.com", "password123", types.RoleOwner)
	gt.NoError(t, err).Required()
	gt.True(t, user.ID != "")
	gt.Equal(t, "alice@example.com", user.Email)
	gt.Equal(t, types.RoleOwner, user.Role)
	gt.True(t, user.PasswordHash != "password123")
	gt.False(t, user.CreatedAt.IsZero())

	t.Run("Password is verified against hash", func(t *testing.T) {
		gt.NoError(t, user.VerifyPassword("password123"))
		gt.Error(t, user.VerifyPassword("wrongpassword"))
	})

	t.Run("Hash never leaks through JSON", func(t *testing.T) {
		data, err := json.Marshal(user)
		gt.NoError(t, err).Required()
		gt.False(t, strings.Contains(string(data), user.PasswordHash))
	})
}

func TestNewUserValidation(t *testing.T) {
	cases := []struct {
		name     string
		userName string
		email    string
		password string
		role     types.Role
	}{
		{"Empty name", "", "a@example.com", "password123", types.RoleOwner},
		{"Empty email", "Alice", "", "password123", types.RoleOwner},
		{"Short password", "Alice", "a@example.com", "short", types.RoleOwner},
		{"Unknown role", "Alice", "a@example.com", "password123", types.Role("mechanic")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := model.NewUser(tc.userName, tc.email, tc.password, tc.role)
			gt.Error(t, err)
		})
	}
}
