package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/types"
)

const (
	// DefaultCategory is substituted when an issue carries no category
	DefaultCategory = "Other"
	// DefaultVehicleModel is substituted when an issue carries no vehicle model
	DefaultVehicleModel = "Unknown"
)

// Issue represents a vehicle problem report submitted by an owner
type Issue struct {
	ID           types.IssueID `json:"id" firestore:"id"`
	UserID       types.UserID  `json:"user_id" firestore:"user_id"`
	Description  string        `json:"description" firestore:"description"`
	Category     string        `json:"category" firestore:"category"`
	Severity     Severity      `json:"severity" firestore:"severity"`
	Status       Status        `json:"status" firestore:"status"`
	VehicleModel string        `json:"vehicle_model" firestore:"vehicle_model"`
	CreatedAt    time.Time     `json:"created_at" firestore:"created_at"`
	ResolvedAt   *time.Time    `json:"resolved_at,omitempty" firestore:"resolved_at,omitempty"`

	// Diagnosis fields filled in by the AI analysis workflow, if it ran
	SuggestedActions []string `json:"suggested_actions,omitempty" firestore:"suggested_actions,omitempty"`
	PossibleCauses   []string `json:"possible_causes,omitempty" firestore:"possible_causes,omitempty"`
	UrgencyLevel     string   `json:"urgency_level,omitempty" firestore:"urgency_level,omitempty"`
	EstimatedCost    string   `json:"estimated_cost,omitempty" firestore:"estimated_cost,omitempty"`
}

// NewIssue creates a new open Issue
func NewIssue(userID types.UserID, description, category, vehicleModel string, severity Severity) (*Issue, error) {
	if userID == "" {
		return nil, goerr.New("user ID is required")
	}
	if strings.TrimSpace(description) == "" {
		return nil, goerr.New("description is required")
	}
	if !severity.IsValid() {
		return nil, goerr.New("invalid severity", goerr.V("severity", severity))
	}

	if strings.TrimSpace(category) == "" {
		category = DefaultCategory
	}
	if strings.TrimSpace(vehicleModel) == "" {
		vehicleModel = DefaultVehicleModel
	}

	return &Issue{
		ID:           types.NewIssueID(),
		UserID:       userID,
		Description:  description,
		Category:     category,
		Severity:     severity,
		Status:       StatusOpen,
		VehicleModel: vehicleModel,
		CreatedAt:    time.Now(),
	}, nil
}

// Resolve marks the issue as resolved at the given time
func (i *Issue) Resolve(at time.Time) {
	i.Status = StatusResolved
	i.ResolvedAt = &at
}

// Reopen clears the resolved state
func (i *Issue) Reopen() {
	i.Status = StatusOpen
	i.ResolvedAt = nil
}

// IsResolved returns true if the issue status is resolved
func (i *Issue) IsResolved() bool {
	return i.Status == StatusResolved
}

// ResolutionTime returns the elapsed time between creation and resolution.
// The second return value is false when the duration is unknown, i.e. the
// issue is not resolved, has no resolution timestamp, or has no creation
// timestamp.
func (i *Issue) ResolutionTime() (time.Duration, bool) {
	if !i.IsResolved() || i.ResolvedAt == nil || i.CreatedAt.IsZero() {
		return 0, false
	}
	return i.ResolvedAt.Sub(i.CreatedAt), true
}

// NormalizedCategory returns the category with the default substituted for
// a missing value
func (i *Issue) NormalizedCategory() string {
	if strings.TrimSpace(i.Category) == "" {
		return DefaultCategory
	}
	return i.Category
}

// NormalizedVehicleModel returns the vehicle model with the default
// substituted for a missing value
func (i *Issue) NormalizedVehicleModel() string {
	if strings.TrimSpace(i.VehicleModel) == "" {
		return DefaultVehicleModel
	}
	return i.VehicleModel
}
