package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/interfaces"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
	llmSvc "github.com/motorq-lab/motorq/pkg/service/llm"
)

// Issue implements IssueUseCase
type Issue struct {
	repo       interfaces.Repository
	diagnosis  *llmSvc.DiagnosisService
	categories *model.CategoriesConfig
}

// NewIssue creates a new Issue use case. The diagnosis service may be nil,
// in which case AI analysis requests are declined.
func NewIssue(repo interfaces.Repository, diagnosis *llmSvc.DiagnosisService, categories *model.CategoriesConfig) IssueUseCase {
	if categories == nil {
		categories = model.DefaultCategoriesConfig()
	}
	return &Issue{
		repo:       repo,
		diagnosis:  diagnosis,
		categories: categories,
	}
}

// Create stores a new issue submitted by the actor
func (u *Issue) Create(ctx context.Context, actor *model.User, input CreateIssueInput) (*model.Issue, error) {
	logger := ctxlog.From(ctx)

	if actor == nil {
		return nil, goerr.New("actor is required")
	}

	severity := model.SeverityMedium
	if input.Severity != "" {
		parsed, err := model.ParseSeverity(input.Severity)
		if err != nil {
			return nil, err
		}
		severity = parsed
	}

	issue, err := model.NewIssue(actor.ID, input.Description, input.Category, input.VehicleModel, severity)
	if err != nil {
		return nil, err
	}

	if input.Analyze {
		if u.diagnosis == nil {
			return nil, goerr.New("AI analysis is not configured")
		}
		diagnosis, err := u.diagnosis.Diagnose(ctx, input.Description, input.VehicleModel, u.categories)
		if err != nil {
			// Classification failure does not block submission; the record
			// keeps the caller-provided fields
			logger.Warn("AI diagnosis failed, storing issue as submitted",
				"error", err,
				"issueID", issue.ID,
			)
		} else {
			diagnosis.Apply(issue)
		}
	}

	if err := u.repo.PutIssue(ctx, issue); err != nil {
		return nil, goerr.Wrap(err, "failed to save issue")
	}

	logger.Info("Created issue",
		"issueID", issue.ID,
		"userID", actor.ID,
		"category", issue.Category,
		"severity", issue.Severity,
	)

	return issue, nil
}

// List returns issues visible to the actor
func (u *Issue) List(ctx context.Context, actor *model.User) ([]*model.Issue, error) {
	if actor == nil {
		return nil, goerr.New("actor is required")
	}

	if actor.Role.CanViewAllIssues() {
		return u.repo.ListIssues(ctx)
	}
	return u.repo.ListIssuesByUser(ctx, actor.ID)
}

// Get returns one issue if the actor may see it
func (u *Issue) Get(ctx context.Context, actor *model.User, id types.IssueID) (*model.Issue, error) {
	if actor == nil {
		return nil, goerr.New("actor is required")
	}

	issue, err := u.repo.GetIssue(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Role.CanViewAllIssues() && issue.UserID != actor.ID {
		return nil, goerr.Wrap(model.ErrPermission, "issue belongs to another user",
			goerr.V("issueID", id))
	}

	return issue, nil
}

// UpdateStatus transitions the issue between open and resolved
func (u *Issue) UpdateStatus(ctx context.Context, actor *model.User, id types.IssueID, status model.Status) (*model.Issue, error) {
	logger := ctxlog.From(ctx)

	if !status.IsValid() {
		return nil, goerr.New("invalid status", goerr.V("status", status))
	}

	issue, err := u.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	switch status {
	case model.StatusResolved:
		if !issue.IsResolved() {
			issue.Resolve(time.Now())
		}
	case model.StatusOpen:
		issue.Reopen()
	}

	if err := u.repo.PutIssue(ctx, issue); err != nil {
		return nil, goerr.Wrap(err, "failed to update issue")
	}

	logger.Info("Updated issue status",
		"issueID", issue.ID,
		"status", issue.Status,
	)

	return issue, nil
}

// Delete removes an issue. Owners may delete their own reports; admins may
// delete any.
func (u *Issue) Delete(ctx context.Context, actor *model.User, id types.IssueID) error {
	if actor == nil {
		return goerr.New("actor is required")
	}

	issue, err := u.repo.GetIssue(ctx, id)
	if err != nil {
		return err
	}

	if actor.Role != types.RoleAdmin && issue.UserID != actor.ID {
		return goerr.Wrap(model.ErrPermission, "issue belongs to another user",
			goerr.V("issueID", id))
	}

	if err := u.repo.DeleteIssue(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete issue")
	}

	ctxlog.From(ctx).Info("Deleted issue",
		"issueID", id,
		"userID", actor.ID,
	)

	return nil
}

// Reanalyze runs AI diagnosis over an existing issue and stores the result
func (u *Issue) Reanalyze(ctx context.Context, actor *model.User, id types.IssueID) error {
	if u.diagnosis == nil {
		return goerr.New("AI analysis is not configured")
	}

	issue, err := u.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	diagnosis, err := u.diagnosis.Diagnose(ctx, issue.Description, issue.VehicleModel, u.categories)
	if err != nil {
		return goerr.Wrap(err, "failed to diagnose issue", goerr.V("issueID", id))
	}

	diagnosis.Apply(issue)

	if err := u.repo.PutIssue(ctx, issue); err != nil {
		return goerr.Wrap(err, "failed to save diagnosed issue")
	}

	ctxlog.From(ctx).Info("Re-analyzed issue",
		"issueID", issue.ID,
		"category", issue.Category,
		"severity", issue.Severity,
	)

	return nil
}
