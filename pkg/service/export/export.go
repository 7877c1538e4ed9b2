package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/model"
)

const dateLayout = "2006-01-02"

// notResolvedLiteral fills the resolvedAt column for open issues
const notResolvedLiteral = "Not resolved"

var csvHeader = []string{
	"id",
	"description",
	"category",
	"severity",
	"status",
	"vehicle_model",
	"created_at",
	"resolved_at",
}

// Formatter serializes an analytics summary and its underlying records into
// downloadable artifacts. It performs no I/O of its own beyond the writer
// handed to it; delivering the file is the caller's concern.
type Formatter struct {
	now func() time.Time
}

// NewFormatter creates a new Formatter
func NewFormatter() *Formatter {
	return &Formatter{
		now: time.Now,
	}
}

// WriteSnapshot writes the structured JSON snapshot: the full summary, a
// generation timestamp, and the raw record list. A nil summary is refused
// so an empty file is never produced.
func (f *Formatter) WriteSnapshot(w io.Writer, summary *model.AnalyticsSummary, issues []*model.Issue) error {
	if summary == nil {
		return goerr.Wrap(model.ErrNoSummary, "refusing to export snapshot")
	}

	snapshot := model.AnalyticsSnapshot{
		GeneratedAt: f.now(),
		Summary:     summary,
		Issues:      issues,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return goerr.Wrap(err, "failed to encode analytics snapshot")
	}

	return nil
}

// WriteCSV writes the flattened tabular form: one row per issue. Separator
// characters embedded in free-text fields are neutralized by CSV quoting.
func (f *Formatter) WriteCSV(w io.Writer, summary *model.AnalyticsSummary, issues []*model.Issue) error {
	if summary == nil {
		return goerr.Wrap(model.ErrNoSummary, "refusing to export CSV")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return goerr.Wrap(err, "failed to write CSV header")
	}

	for _, issue := range issues {
		resolvedAt := notResolvedLiteral
		if issue.ResolvedAt != nil {
			resolvedAt = issue.ResolvedAt.Format(dateLayout)
		}

		createdAt := ""
		if !issue.CreatedAt.IsZero() {
			createdAt = issue.CreatedAt.Format(dateLayout)
		}

		row := []string{
			issue.ID.String(),
			issue.Description,
			issue.NormalizedCategory(),
			issue.Severity.String(),
			issue.Status.String(),
			issue.NormalizedVehicleModel(),
			createdAt,
			resolvedAt,
		}
		if err := cw.Write(row); err != nil {
			return goerr.Wrap(err, "failed to write CSV row",
				goerr.V("issueID", issue.ID))
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush CSV output")
	}

	return nil
}

// Snapshot renders the JSON snapshot into memory
func (f *Formatter) Snapshot(summary *model.AnalyticsSummary, issues []*model.Issue) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.WriteSnapshot(&buf, summary, issues); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CSV renders the tabular form into memory
func (f *Formatter) CSV(summary *model.AnalyticsSummary, issues []*model.Issue) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.WriteCSV(&buf, summary, issues); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
