package llm

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/motorq-lab/motorq/pkg/domain/model"
)

// Error tags for categorization
var (
	ErrTagInvalidJSON     = goerr.NewTag("invalid_json")
	ErrTagEmptyResponse   = goerr.NewTag("empty_response")
	ErrTagTemplateFailure = goerr.NewTag("template_failure")
)

//go:embed templates/*.md
var templateFS embed.FS

// DiagnosisService classifies vehicle problem descriptions with an LLM
type DiagnosisService struct {
	llmClient gollem.LLMClient
}

// diagnosisTemplateData contains data for the diagnosis prompt template
type diagnosisTemplateData struct {
	Description  string
	VehicleModel string
	Categories   []model.Category
}

// rawDiagnosis mirrors the JSON shape the model is asked to produce
type rawDiagnosis struct {
	FormattedDescription string   `json:"formatted_description"`
	Category             string   `json:"category"`
	Severity             string   `json:"severity"`
	SuggestedActions     []string `json:"suggested_actions"`
	PossibleCauses       []string `json:"possible_causes"`
	UrgencyLevel         string   `json:"urgency_level"`
	EstimatedCost        string   `json:"estimated_cost"`
}

// NewDiagnosisService creates a new DiagnosisService instance
func NewDiagnosisService(llmClient gollem.LLMClient) *DiagnosisService {
	return &DiagnosisService{
		llmClient: llmClient,
	}
}

// Diagnose analyzes a free-text problem description with a vehicle-model
// hint and returns a structured classification. A category outside the
// configured set falls back to the default category, and an invalid
// severity falls back to medium, so a sloppy model response never produces
// an unusable record.
func (s *DiagnosisService) Diagnose(ctx context.Context, description, vehicleModel string, categories *model.CategoriesConfig) (*model.Diagnosis, error) {
	if description == "" {
		return nil, goerr.New("no description provided for diagnosis")
	}
	if categories == nil {
		categories = model.DefaultCategoriesConfig()
	}

	prompt, err := s.renderDiagnosisTemplate(diagnosisTemplateData{
		Description:  description,
		VehicleModel: vehicleModel,
		Categories:   categories.Categories,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render diagnosis template",
			goerr.T(ErrTagTemplateFailure))
	}

	// JSON content type so the model returns a machine-readable object
	session, err := s.llmClient.NewSession(ctx, gollem.WithSessionContentType(gollem.ContentTypeJSON))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	response, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate LLM response")
	}

	if len(response.Texts) == 0 || response.Texts[0] == "" {
		return nil, goerr.New("empty response from LLM",
			goerr.T(ErrTagEmptyResponse))
	}

	var raw rawDiagnosis
	if err := json.Unmarshal([]byte(response.Texts[0]), &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse LLM response as JSON",
			goerr.V("response", response.Texts[0]),
			goerr.T(ErrTagInvalidJSON))
	}

	diagnosis := &model.Diagnosis{
		FormattedDescription: raw.FormattedDescription,
		Category:             raw.Category,
		SuggestedActions:     raw.SuggestedActions,
		PossibleCauses:       raw.PossibleCauses,
		UrgencyLevel:         raw.UrgencyLevel,
		EstimatedCost:        raw.EstimatedCost,
	}

	if diagnosis.Category == "" || !categories.IsValidCategoryName(diagnosis.Category) {
		diagnosis.Category = model.DefaultCategory
	}

	severity, err := model.ParseSeverity(raw.Severity)
	if err != nil {
		severity = model.SeverityMedium
	}
	diagnosis.Severity = severity

	return diagnosis, nil
}

// renderDiagnosisTemplate renders the diagnosis prompt template
func (s *DiagnosisService) renderDiagnosisTemplate(data diagnosisTemplateData) (string, error) {
	templateContent, err := templateFS.ReadFile("templates/issue_diagnosis.md")
	if err != nil {
		return "", goerr.Wrap(err, "failed to read diagnosis template")
	}

	tmpl, err := template.New("issue_diagnosis").Parse(string(templateContent))
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse diagnosis template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute diagnosis template")
	}

	return buf.String(), nil
}
