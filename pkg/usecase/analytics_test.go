package usecase_test

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
	"github.com/motorq-lab/motorq/pkg/repository"
	"github.com/motorq-lab/motorq/pkg/service/analytics"
	"github.com/motorq-lab/motorq/pkg/usecase"
)

func TestAnalyticsSummary(t *testing.T) {
	ctx := testContext()
	repo := repository.NewMemory()
	owner := registerUser(t, repo, "owner@example.com", types.RoleOwner)
	provider := registerUser(t, repo, "provider@example.com", types.RoleProvider)

	issueUC := usecase.NewIssue(repo, nil, nil)
	_, err := issueUC.Create(ctx, owner, usecase.CreateIssueInput{
		Description:  "Engine stalls",
		Category:     "Engine",
		VehicleModel: "Nexon",
		Severity:     "high",
	})
	gt.NoError(t, err).Required()

	uc := usecase.NewAnalytics(repo, analytics.NewAggregator(nil))

	summary, err := uc.Summary(ctx, provider)
	gt.NoError(t, err).Required()
	gt.Equal(t, 1, summary.Overview.TotalIssues)
	gt.Equal(t, 1, summary.Overview.CriticalIssues)
	gt.Equal(t, "Nexon", summary.IssuesByModel[0].Model)

	t.Run("Owner denied", func(t *testing.T) {
		_, err := uc.Summary(ctx, owner)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrPermission))
	})
}

func TestAnalyticsExports(t *testing.T) {
	ctx := testContext()
	repo := repository.NewMemory()
	owner := registerUser(t, repo, "owner@example.com", types.RoleOwner)
	admin := registerUser(t, repo, "admin@example.com", types.RoleAdmin)

	issueUC := usecase.NewIssue(repo, nil, nil)
	_, err := issueUC.Create(ctx, owner, usecase.CreateIssueInput{
		Description:  "Engine stalls",
		Category:     "Engine",
		VehicleModel: "Nexon",
	})
	gt.NoError(t, err).Required()

	uc := usecase.NewAnalytics(repo, analytics.NewAggregator(nil))

	snapshot, err := uc.ExportSnapshot(ctx, admin)
	gt.NoError(t, err).Required()

	var decoded model.AnalyticsSnapshot
	gt.NoError(t, json.Unmarshal(snapshot, &decoded)).Required()
	gt.Equal(t, 1, decoded.Summary.Overview.TotalIssues)
	gt.Equal(t, 1, len(decoded.Issues))

	csvData, err := uc.ExportCSV(ctx, admin)
	gt.NoError(t, err).Required()
	rows, err := csv.NewReader(strings.NewReader(string(csvData))).ReadAll()
	gt.NoError(t, err).Required()
	gt.Equal(t, 2, len(rows))

	t.Run("Owner denied", func(t *testing.T) {
		_, err := uc.ExportSnapshot(ctx, owner)
		gt.Error(t, err)
		_, err = uc.ExportCSV(ctx, owner)
		gt.Error(t, err)
	})
}
