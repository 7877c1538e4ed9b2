package usecase

import (
	"context"

	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
)

// AuthUseCase defines the interface for authentication operations
type AuthUseCase interface {
	// Register creates a new user account
	Register(ctx context.Context, name, email, password string, role types.Role) (*model.User, error)

	// Login verifies credentials and creates a new session
	Login(ctx context.Context, email, password string) (*model.Session, error)

	// ValidateSession validates a session by ID and secret
	ValidateSession(ctx context.Context, sessionID, sessionSecret string) (*model.Session, error)

	// DeleteSession deletes a session
	DeleteSession(ctx context.Context, sessionID string) error

	// GetUserFromSession gets user information from a session
	GetUserFromSession(ctx context.Context, sessionID string) (*model.User, error)
}

// CreateIssueInput carries the fields of a new problem report
type CreateIssueInput struct {
	Description  string
	Category     string
	VehicleModel string
	Severity     string
	// Analyze requests AI classification of the description before the
	// record is stored
	Analyze bool
}

// IssueUseCase defines the interface for issue operations
type IssueUseCase interface {
	// Create stores a new issue submitted by the actor
	Create(ctx context.Context, actor *model.User, input CreateIssueInput) (*model.Issue, error)

	// List returns issues visible to the actor: owners see their own,
	// providers and admins see all
	List(ctx context.Context, actor *model.User) ([]*model.Issue, error)

	// Get returns one issue if the actor may see it
	Get(ctx context.Context, actor *model.User, id types.IssueID) (*model.Issue, error)

	// UpdateStatus transitions the issue between open and resolved
	UpdateStatus(ctx context.Context, actor *model.User, id types.IssueID, status model.Status) (*model.Issue, error)

	// Delete removes an issue
	Delete(ctx context.Context, actor *model.User, id types.IssueID) error

	// Reanalyze runs AI diagnosis over an existing issue and stores the result
	Reanalyze(ctx context.Context, actor *model.User, id types.IssueID) error
}

// AnalyticsUseCase defines the interface for the analytics read model
type AnalyticsUseCase interface {
	// Summary recomputes the analytics summary from the current issue set
	Summary(ctx context.Context, actor *model.User) (*model.AnalyticsSummary, error)

	// ExportSnapshot renders the JSON snapshot artifact
	ExportSnapshot(ctx context.Context, actor *model.User) ([]byte, error)

	// ExportCSV renders the tabular CSV artifact
	ExportCSV(ctx context.Context, actor *model.User) ([]byte, error)
}

// AdminUseCase defines the interface for account administration
type AdminUseCase interface {
	// ListUsers returns all accounts
	ListUsers(ctx context.Context, actor *model.User) ([]*model.User, error)

	// UpdateRole changes the role of an account
	UpdateRole(ctx context.Context, actor *model.User, id types.UserID, role types.Role) (*model.User, error)

	// DeleteUser removes an account
	DeleteUser(ctx context.Context, actor *model.User, id types.UserID) error
}
