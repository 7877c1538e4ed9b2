package model

// Diagnosis represents the structured classification returned by the AI
// analysis service for a submitted problem description
type Diagnosis struct {
	FormattedDescription string   `json:"formatted_description"`
	Category             string   `json:"category"`
	Severity             Severity `json:"severity"`
	SuggestedActions     []string `json:"suggested_actions"`
	PossibleCauses       []string `json:"possible_causes"`
	UrgencyLevel         string   `json:"urgency_level"`
	EstimatedCost        string   `json:"estimated_cost"`
}

// Apply copies the diagnosis into the issue fields the workflow owns
func (d *Diagnosis) Apply(issue *Issue) {
	if d.FormattedDescription != "" {
		issue.Description = d.FormattedDescription
	}
	if d.Category != "" {
		issue.Category = d.Category
	}
	if d.Severity.IsValid() {
		issue.Severity = d.Severity
	}
	issue.SuggestedActions = d.SuggestedActions
	issue.PossibleCauses = d.PossibleCauses
	issue.UrgencyLevel = d.UrgencyLevel
	issue.EstimatedCost = d.EstimatedCost
}
