package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/interfaces"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
)

// Admin implements AdminUseCase
type Admin struct {
	repo interfaces.Repository
}

// NewAdmin creates a new Admin use case
func NewAdmin(repo interfaces.Repository) AdminUseCase {
	return &Admin{
		repo: repo,
	}
}

// ListUsers returns all accounts
func (u *Admin) ListUsers(ctx context.Context, actor *model.User) ([]*model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return u.repo.ListUsers(ctx)
}

// UpdateRole changes the role of an account
func (u *Admin) UpdateRole(ctx context.Context, actor *model.User, id types.UserID, role types.Role) (*model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, goerr.New("invalid role", goerr.V("role", role))
	}
	if actor.ID == id && role != types.RoleAdmin {
		return nil, goerr.New("admins cannot demote themselves")
	}

	user, err := u.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := u.repo.SaveUser(ctx, user); err != nil {
		return nil, goerr.Wrap(err, "failed to save user")
	}

	ctxlog.From(ctx).Info("Updated user role",
		"userID", id,
		"role", role,
		"actor", actor.ID,
	)

	return user, nil
}

// DeleteUser removes an account
func (u *Admin) DeleteUser(ctx context.Context, actor *model.User, id types.UserID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == id {
		return goerr.New("admins cannot delete their own account")
	}

	if err := u.repo.DeleteUser(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete user")
	}

	ctxlog.From(ctx).Info("Deleted user",
		"userID", id,
		"actor", actor.ID,
	)

	return nil
}

func requireAdmin(actor *model.User) error {
	if actor == nil {
		return goerr.New("actor is required")
	}
	if actor.Role != types.RoleAdmin {
		return goerr.Wrap(model.ErrPermission, "admin role required",
			goerr.V("role", actor.Role))
	}
	return nil
}
