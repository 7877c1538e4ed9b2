package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/interfaces"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/service/analytics"
	"github.com/motorq-lab/motorq/pkg/service/export"
)

// Analytics implements AnalyticsUseCase. The summary is recomputed from the
// full issue set on every call; callers own any caching.
type Analytics struct {
	repo       interfaces.Repository
	aggregator *analytics.Aggregator
	formatter  *export.Formatter
}

// NewAnalytics creates a new Analytics use case
func NewAnalytics(repo interfaces.Repository, aggregator *analytics.Aggregator) AnalyticsUseCase {
	return &Analytics{
		repo:       repo,
		aggregator: aggregator,
		formatter:  export.NewFormatter(),
	}
}

// Summary recomputes the analytics summary from the current issue set
func (u *Analytics) Summary(ctx context.Context, actor *model.User) (*model.AnalyticsSummary, error) {
	issues, err := u.fetch(ctx, actor)
	if err != nil {
		return nil, err
	}
	return u.aggregator.Aggregate(issues, time.Now()), nil
}

// ExportSnapshot renders the JSON snapshot artifact
func (u *Analytics) ExportSnapshot(ctx context.Context, actor *model.User) ([]byte, error) {
	issues, err := u.fetch(ctx, actor)
	if err != nil {
		return nil, err
	}
	summary := u.aggregator.Aggregate(issues, time.Now())
	return u.formatter.Snapshot(summary, issues)
}

// ExportCSV renders the tabular CSV artifact
func (u *Analytics) ExportCSV(ctx context.Context, actor *model.User) ([]byte, error) {
	issues, err := u.fetch(ctx, actor)
	if err != nil {
		return nil, err
	}
	summary := u.aggregator.Aggregate(issues, time.Now())
	return u.formatter.CSV(summary, issues)
}

func (u *Analytics) fetch(ctx context.Context, actor *model.User) ([]*model.Issue, error) {
	if actor == nil {
		return nil, goerr.New("actor is required")
	}
	if !actor.Role.CanViewAllIssues() {
		return nil, goerr.Wrap(model.ErrPermission, "analytics requires provider or admin role",
			goerr.V("role", actor.Role))
	}

	issues, err := u.repo.ListIssues(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list issues")
	}
	return issues, nil
}
