package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
)

const (
	// trendMonths is the size of the monthly trend window
	trendMonths = 6
	// maxCommonFlaws caps the common flaws ranking
	maxCommonFlaws = 10
)

// Aggregator computes the analytics read model from the full issue set.
// It is stateless and holds only the chart palette; every call recomputes
// the summary from scratch.
type Aggregator struct {
	palette []string
}

// NewAggregator creates a new Aggregator. A nil or empty palette falls back
// to the built-in chart palette.
func NewAggregator(palette []string) *Aggregator {
	if len(palette) == 0 {
		palette = model.DefaultChartPalette
	}
	return &Aggregator{
		palette: palette,
	}
}

// Aggregate produces an AnalyticsSummary from the given issues. The output
// is deterministic for a fixed input set and reference time: sorts are
// stable over the stated keys, and the 6-month trend window ends at the
// calendar month of `now`. Malformed records never abort the aggregation;
// missing category or vehicle model fall back to defaults, and records
// without a usable creation timestamp are excluded from trend bucketing and
// resolution-time averaging only.
func (a *Aggregator) Aggregate(issues []*model.Issue, now time.Time) *model.AnalyticsSummary {
	return &model.AnalyticsSummary{
		Overview:             a.overview(issues),
		IssuesByModel:        a.groupByModel(issues),
		IssuesByCategory:     a.groupByCategory(issues),
		MonthlyTrends:        a.monthlyTrends(issues, now),
		CommonFlaws:          a.commonFlaws(issues),
		SeverityDistribution: a.severityDistribution(issues),
	}
}

func (a *Aggregator) overview(issues []*model.Issue) model.Overview {
	users := make(map[types.UserID]struct{})
	var resolved, critical int
	var totalResolution time.Duration
	var measured int

	for _, issue := range issues {
		if issue.IsResolved() {
			resolved++
		}
		if issue.Severity == model.SeverityHigh {
			critical++
		}
		if issue.UserID != "" {
			users[issue.UserID] = struct{}{}
		}
		if d, ok := issue.ResolutionTime(); ok {
			totalResolution += d
			measured++
		}
	}

	var avgDays float64
	if measured > 0 {
		days := totalResolution.Hours() / 24 / float64(measured)
		avgDays = math.Round(days*10) / 10
	}

	return model.Overview{
		TotalIssues:           len(issues),
		ResolvedIssues:        resolved,
		ActiveIssues:          len(issues) - resolved,
		CriticalIssues:        critical,
		TotalUsers:            len(users),
		AvgResolutionTimeDays: avgDays,
	}
}

func (a *Aggregator) groupByModel(issues []*model.Issue) []model.ModelBreakdown {
	index := make(map[string]int)
	var groups []model.ModelBreakdown

	for _, issue := range issues {
		name := issue.NormalizedVehicleModel()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, model.ModelBreakdown{Model: name})
		}
		groups[i].IssueCount++
		if issue.IsResolved() {
			groups[i].ResolvedCount++
		}
	}

	for i := range groups {
		groups[i].ResolutionRatePercent = roundPercent(groups[i].ResolvedCount, groups[i].IssueCount)
	}

	// Stable keeps first-encountered order on equal counts
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].IssueCount > groups[j].IssueCount
	})

	return groups
}

func (a *Aggregator) groupByCategory(issues []*model.Issue) []model.CategoryBreakdown {
	index := make(map[string]int)
	var groups []model.CategoryBreakdown

	for _, issue := range issues {
		name := issue.NormalizedCategory()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, model.CategoryBreakdown{Category: name})
		}
		groups[i].Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})

	// Colors cycle over the post-sort position so the biggest slice always
	// gets the first palette entry
	for i := range groups {
		groups[i].ColorTag = a.palette[i%len(a.palette)]
	}

	return groups
}

func (a *Aggregator) monthlyTrends(issues []*model.Issue, now time.Time) []model.MonthlyTrend {
	trends := make([]model.MonthlyTrend, trendMonths)
	// Buckets are keyed by (year, month), not by month name, so a window
	// spanning a year boundary never merges same-named months
	index := make(map[int]int, trendMonths)

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 0; i < trendMonths; i++ {
		month := first.AddDate(0, i-(trendMonths-1), 0)
		trends[i] = model.MonthlyTrend{Month: month.Format("Jan")}
		index[monthKey(month)] = i
	}

	for _, issue := range issues {
		if issue.CreatedAt.IsZero() {
			continue
		}
		i, ok := index[monthKey(issue.CreatedAt)]
		if !ok {
			continue
		}
		trends[i].IssueCount++
		if issue.IsResolved() {
			trends[i].ResolvedCount++
		}
	}

	return trends
}

func monthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

type flawGroup struct {
	flaw       model.CommonFlaw
	severities map[model.Severity]int
	seenModels map[string]struct{}
}

func (a *Aggregator) commonFlaws(issues []*model.Issue) []model.CommonFlaw {
	index := make(map[string]int)
	var groups []*flawGroup

	for _, issue := range issues {
		category := issue.NormalizedCategory()
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, &flawGroup{
				flaw: model.CommonFlaw{
					Label: fmt.Sprintf("%s related issues", category),
				},
				severities: make(map[model.Severity]int),
				seenModels: make(map[string]struct{}),
			})
		}

		g := groups[i]
		g.flaw.Frequency++
		g.severities[issue.Severity]++

		vehicleModel := issue.NormalizedVehicleModel()
		if _, seen := g.seenModels[vehicleModel]; !seen {
			g.seenModels[vehicleModel] = struct{}{}
			g.flaw.AffectedModels = append(g.flaw.AffectedModels, vehicleModel)
		}
	}

	flaws := make([]model.CommonFlaw, 0, len(groups))
	for _, g := range groups {
		g.flaw.DominantSeverity = dominantSeverity(g.severities)
		flaws = append(flaws, g.flaw)
	}

	sort.SliceStable(flaws, func(i, j int) bool {
		return flaws[i].Frequency > flaws[j].Frequency
	})

	if len(flaws) > maxCommonFlaws {
		flaws = flaws[:maxCommonFlaws]
	}

	return flaws
}

// dominantSeverity returns the severity with the highest tally. Ties prefer
// the more severe label.
func dominantSeverity(tally map[model.Severity]int) model.Severity {
	var best model.Severity
	var bestCount int
	// Iterating most severe first makes a strict comparison break ties
	// toward the more severe label
	for _, s := range []model.Severity{model.SeverityHigh, model.SeverityMedium, model.SeverityLow} {
		if tally[s] > bestCount {
			best = s
			bestCount = tally[s]
		}
	}
	return best
}

func (a *Aggregator) severityDistribution(issues []*model.Issue) []model.SeverityCount {
	tally := make(map[model.Severity]int)
	unknown := 0
	for _, issue := range issues {
		if !issue.Severity.IsValid() {
			// Old store documents may carry a severity outside the closed
			// set; a trailing row keeps the counts summing to the total
			unknown++
			continue
		}
		tally[issue.Severity]++
	}

	// Rows only for severities actually present, ordered most severe first
	var rows []model.SeverityCount
	for _, s := range []model.Severity{model.SeverityHigh, model.SeverityMedium, model.SeverityLow} {
		count, ok := tally[s]
		if !ok {
			continue
		}
		rows = append(rows, model.SeverityCount{
			Severity:   s.Label(),
			Count:      count,
			Percentage: roundPercent(count, len(issues)),
		})
	}

	if unknown > 0 {
		rows = append(rows, model.SeverityCount{
			Severity:   "Unknown",
			Count:      unknown,
			Percentage: roundPercent(unknown, len(issues)),
		})
	}

	return rows
}

// roundPercent computes round(part/total*100) and never divides by zero
func roundPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
