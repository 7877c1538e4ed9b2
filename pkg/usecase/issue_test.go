package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"
	"github.com/motorq-lab/motorq/pkg/domain/interfaces"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
	"github.com/motorq-lab/motorq/pkg/repository"
	llmSvc "github.com/motorq-lab/motorq/pkg/service/llm"
	"github.com/motorq-lab/motorq/pkg/usecase"
)

func registerUser(t *testing.T, repo interfaces.Repository, email string, role types.Role) *model.User {
	t.Helper()
	user, err := model.NewUser("Test User", email, "password123", role)
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.SaveUser(context.Background(), user)).Required()
	return user
}

func diagnosisMock(response string) *llmSvc.DiagnosisService {
	client := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{response}}, nil
				},
			}, nil
		},
	}
	return llmSvc.NewDiagnosisService(client)
}

func TestIssueCreate(t *testing.T) {
	ctx := testContext()
	repo := repository.NewMemory()
	owner := registerUser(t, repo, "owner@example.com", types.RoleOwner)
	uc := usecase.NewIssue(repo, nil, nil)

	issue, err := uc.Create(ctx, owner, usecase.CreateIssueInput{
		Description:  "Engine stalls at idle",
		Category:     "Engine",
		VehicleModel: "Nexon",
		Severity:     "high",
	})
	gt.NoError(t, err).Required()
	gt.Equal(t, owner.ID, issue.UserID)
	gt.Equal(t, model.SeverityHigh, issue.Severity)
	gt.Equal(t, model.StatusOpen, issue.Status)

	t.Run("Defaults applied", func(t *testing.T) {
		issue, err := uc.Create(ctx, owner, usecase.CreateIssueInput{
			Description: "Something rattles",
		})
		gt.NoError(t, err).Required()
		gt.Equal(t, model.DefaultCategory, issue.Category)
		gt.Equal(t, model.DefaultVehicleModel, issue.VehicleModel)
		gt.Equal(t, model.SeverityMedium, issue.Severity)
	})

	t.Run("Invalid severity rejected", func(t *testing.T) {
		_, err := uc.Create(ctx, owner, usecase.CreateIssueInput{
			Description: "Something rattles",
			Severity:    "catastrophic",
		})
		gt.Error(t, err)
	})

	t.Run("Empty description rejected", func(t *testing.T) {
		_, err := uc.Create(ctx, owner, usecase.CreateIssueInput{})
		gt.Error(t, err)
	})
}

func TestIssueCreateWithAnalysis(t *testing.T) {
	ctx := testContext()
	repo := repository.NewMemory()
	owner := registerUser(t, repo, "owner@example.com", types.RoleOwner)

	diag := diagnosisMock(`{
		"formatted_description": "Grinding noise from front brakes",
		"category": "Brakes",
		"severity": "high",
		"suggested_actions": ["Inspect brake pads"],
		"possible_causes": ["Worn pads"],
		"urgency_level": "immediate",
		"estimated_cost": "$200"
	}`)
	uc := usecase.NewIssue(repo, diag, nil)

	issue, err := uc.Create(ctx, owner, usecase.CreateIssueInput{
		Description:  "brakes grinding",
		VehicleModel: "Nexon",
		Analyze:      true,
	})
	gt.NoError(t, err).Required()
	gt.Equal(t, "Brakes", issue.Category)
	gt.Equal(t, model.SeverityHigh, issue.Severity)
	gt.Equal(t, "Grinding noise from front brakes", issue.Description)
	gt.Equal(t, "immediate", issue.UrgencyLevel)
}

func TestIssueCreateAnalysisFailureKeepsSubmission(t *testing.T) {
	ctx := testContext()
	repo := repository.NewMemory()
	owner := registerUser(t, repo, "owner@example.com", types.RoleOwner)

	diag := diagnosisMock("not json at all")
	uc := usecase.NewIssue(repo, diag, nil)

	issue, err := uc.Create(ctx, owner, usecase.CreateIssueInput{
		Description: "brakes grinding",
		Category:    "Brakes",
		Severity:    "low",
		Analyze:     true,
	})
	gt.NoError(t, err).Required()
	gt.Equal(t, "Brakes", issue.Category)
	gt.Equal(t, model.SeverityLow, issue.Severity)
}

func TestIssueListVisibility(t *testing.T) {
	ctx := testContext()
	repo := repository.NewMemory()
	owner := registerUser(t, repo, "owner@example.com", types.RoleOwner)
	other := registerUser(t, repo, "other@example.com", types.RoleOwner)
	provider := registerUser(t, repo, "provider@example.com", types.RoleProvider)
	uc := usecase.NewIssue(repo, nil, nil)

	_, err := uc.Create(ctx, owner, usecase.CreateIssueInput{Description: "Mine"})
	gt.NoError(t, err).Required()
	_, err = uc.Create(ctx, other, usecase.CreateIssueInput{Description: "Theirs"})
	gt.NoError(t, err).Required()

	mine, err := uc.List(ctx, owner)
	gt.NoError(t, err).Required()
	gt.Equal(t, 1, len(mine))
	gt.Equal(t, owner.ID, mine[0].UserID)

	all, err := uc.List(ctx, provider)
	gt.NoError(t, err).Required()
	gt.Equal(t, 2, len(all))
}

func TestIssueGetPermission(t *testing.T) {
	ctx := testContext()
	repo := repository.NewMemory()
	owner := registerUser(t, repo, "owner@example.com", types.RoleOwner)
	other := registerUser(t, repo, "other@example.com", types.RoleOwner)
	provider := registerUser(t, repo, "provider@example.com", types.RoleProvider)
	uc := usecase.NewIssue(repo, nil, nil)

	issue, err := uc.Create(ctx, owner, usecase.CreateIssueInput{Description: "Mine"})
	gt.NoError(t, err).Required()

	_, err = uc.Get(ctx, owner, issue.ID)
	gt.NoError(t, err)

	_, err = uc.Get(ctx, provider, issue.ID)
	gt.NoError(t, err)

	_, err = uc.Get(ctx, other, issue.ID)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrPermission))
}

func TestIssueUpdateStatus(t *testing.T) {
	ctx := testContext()
	repo := repository.NewMemory()
	owner := registerUser(t, repo, "owner@example.com", types.RoleOwner)
	uc := usecase.NewIssue(repo, nil, nil)

	issue, err := uc.Create(ctx, owner, usecase.CreateIssueInput{Description: "Mine"})
	gt.NoError(t, err).Required()

	resolved, err := uc.UpdateStatus(ctx, owner, issue.ID, model.StatusResolved)
	gt.NoError(t, err).Required()
	gt.Equal(t, model.StatusResolved, resolved.Status)
	gt.True(t, resolved.ResolvedAt != nil)

	reopened, err := uc.UpdateStatus(ctx, owner, issue.ID, model.StatusOpen)
	gt.NoError(t, err).Required()
	gt.Equal(t, model.StatusOpen, reopened.Status)
	gt.True(t, reopened.ResolvedAt == nil)
}

func TestIssueDelete(t *testing.T) {
	ctx := testContext()
	repo := repository.NewMemory()
	owner := registerUser(t, repo, "owner@example.com", types.RoleOwner)
	other := registerUser(t, repo, "other@example.com", types.RoleOwner)
	admin := registerUser(t, repo, "admin@example.com", types.RoleAdmin)
	uc := usecase.NewIssue(repo, nil, nil)

	issue, err := uc.Create(ctx, owner, usecase.CreateIssueInput{Description: "Mine"})
	gt.NoError(t, err).Required()

	gt.Error(t, uc.Delete(ctx, other, issue.ID))
	gt.NoError(t, uc.Delete(ctx, admin, issue.ID))

	_, err = uc.Get(ctx, owner, issue.ID)
	gt.Error(t, err)
}

func TestIssueReanalyze(t *testing.T) {
	ctx := testContext()
	repo := repository.NewMemory()
	owner := registerUser(t, repo, "owner@example.com", types.RoleOwner)

	diag := diagnosisMock(`{
		"formatted_description": "Battery drains overnight",
		"category": "Electrical",
		"severity": "medium",
		"possible_causes": ["Parasitic drain"]
	}`)
	uc := usecase.NewIssue(repo, diag, nil)

	issue, err := uc.Create(ctx, owner, usecase.CreateIssueInput{Description: "battery dies"})
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Reanalyze(ctx, owner, issue.ID))

	updated, err := uc.Get(ctx, owner, issue.ID)
	gt.NoError(t, err).Required()
	gt.Equal(t, "Electrical", updated.Category)
	gt.Equal(t, []string{"Parasitic drain"}, updated.PossibleCauses)

	t.Run("Not configured", func(t *testing.T) {
		bare := usecase.NewIssue(repo, nil, nil)
		gt.Error(t, bare.Reanalyze(ctx, owner, issue.ID))
	})
}
