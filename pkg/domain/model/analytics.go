package model

import "time"

// AnalyticsSummary is the read model computed from the full issue set.
// It is recomputed from scratch on every request and never persisted.
type AnalyticsSummary struct {
	Overview             Overview            `json:"overview"`
	IssuesByModel        []ModelBreakdown    `json:"issues_by_model"`
	IssuesByCategory     []CategoryBreakdown `json:"issues_by_category"`
	MonthlyTrends        []MonthlyTrend      `json:"monthly_trends"`
	CommonFlaws          []CommonFlaw        `json:"common_flaws"`
	SeverityDistribution []SeverityCount     `json:"severity_distribution"`
}

// Overview holds the headline counters of the dashboard
type Overview struct {
	TotalIssues           int     `json:"total_issues"`
	ResolvedIssues        int     `json:"resolved_issues"`
	ActiveIssues          int     `json:"active_issues"`
	CriticalIssues        int     `json:"critical_issues"`
	TotalUsers            int     `json:"total_users"`
	AvgResolutionTimeDays float64 `json:"avg_resolution_time_days"`
}

// ModelBreakdown holds per-vehicle-model issue counts
type ModelBreakdown struct {
	Model                 string `json:"model"`
	IssueCount            int    `json:"issue_count"`
	ResolvedCount         int    `json:"resolved_count"`
	ResolutionRatePercent int    `json:"resolution_rate_percent"`
}

// CategoryBreakdown holds per-category issue counts with a chart color
type CategoryBreakdown struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	ColorTag string `json:"color_tag"`
}

// MonthlyTrend holds issue counts for one calendar month
type MonthlyTrend struct {
	Month         string `json:"month"`
	IssueCount    int    `json:"issue_count"`
	ResolvedCount int    `json:"resolved_count"`
}

// CommonFlaw is a category-level aggregation surfaced as a quality insight
type CommonFlaw struct {
	Label            string   `json:"label"`
	Frequency        int      `json:"frequency"`
	DominantSeverity Severity `json:"dominant_severity"`
	AffectedModels   []string `json:"affected_models"`
}

// SeverityCount holds the share of one severity level
type SeverityCount struct {
	Severity   string `json:"severity"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// AnalyticsSnapshot is the machine-readable export artifact: the summary
// plus the raw records it was computed from
type AnalyticsSnapshot struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Summary     *AnalyticsSummary `json:"summary"`
	Issues      []*Issue          `json:"issues"`
}
