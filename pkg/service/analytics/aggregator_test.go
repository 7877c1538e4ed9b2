package analytics_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
	"github.com/motorq-lab/motorq/pkg/service/analytics"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func makeIssue(userID, category, vehicleModel string, severity model.Severity, createdAt time.Time) *model.Issue {
	return &model.Issue{
		ID:           types.NewIssueID(),
		UserID:       types.UserID(userID),
		Description:  "test issue",
		Category:     category,
		Severity:     severity,
		Status:       model.StatusOpen,
		VehicleModel: vehicleModel,
		CreatedAt:    createdAt,
	}
}

func resolveAt(issue *model.Issue, at time.Time) *model.Issue {
	issue.Resolve(at)
	return issue
}

func TestAggregateEmptyInput(t *testing.T) {
	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate(nil, testNow)

	gt.Equal(t, 0, summary.Overview.TotalIssues)
	gt.Equal(t, 0, summary.Overview.ResolvedIssues)
	gt.Equal(t, 0, summary.Overview.ActiveIssues)
	gt.Equal(t, 0, summary.Overview.TotalUsers)
	gt.Equal(t, 0.0, summary.Overview.AvgResolutionTimeDays)
	gt.Equal(t, 0, len(summary.IssuesByModel))
	gt.Equal(t, 0, len(summary.IssuesByCategory))
	gt.Equal(t, 0, len(summary.CommonFlaws))
	gt.Equal(t, 0, len(summary.SeverityDistribution))

	// Trend window is always six months, zero-filled
	gt.A(t, summary.MonthlyTrends).Length(6).Required()
	gt.Equal(t, "Oct", summary.MonthlyTrends[0].Month)
	gt.Equal(t, "Mar", summary.MonthlyTrends[5].Month)
	for _, trend := range summary.MonthlyTrends {
		gt.Equal(t, 0, trend.IssueCount)
		gt.Equal(t, 0, trend.ResolvedCount)
	}
}

func TestAggregateSingleResolvedIssue(t *testing.T) {
	created := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	issue := makeIssue("user-1", "Engine", "Nexon", model.SeverityHigh, created)
	resolveAt(issue, created.Add(3*24*time.Hour))

	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate([]*model.Issue{issue}, testNow)

	gt.Equal(t, 1, summary.Overview.TotalIssues)
	gt.Equal(t, 1, summary.Overview.ResolvedIssues)
	gt.Equal(t, 0, summary.Overview.ActiveIssues)
	gt.Equal(t, 1, summary.Overview.CriticalIssues)
	gt.Equal(t, 1, summary.Overview.TotalUsers)
	gt.Equal(t, 3.0, summary.Overview.AvgResolutionTimeDays)

	gt.A(t, summary.IssuesByModel).Length(1).Required()
	gt.Equal(t, "Nexon", summary.IssuesByModel[0].Model)
	gt.Equal(t, 1, summary.IssuesByModel[0].IssueCount)
	gt.Equal(t, 1, summary.IssuesByModel[0].ResolvedCount)
	gt.Equal(t, 100, summary.IssuesByModel[0].ResolutionRatePercent)

	gt.A(t, summary.SeverityDistribution).Length(1).Required()
	gt.Equal(t, "High", summary.SeverityDistribution[0].Severity)
	gt.Equal(t, 1, summary.SeverityDistribution[0].Count)
	gt.Equal(t, 100, summary.SeverityDistribution[0].Percentage)
}

func TestAggregateOverviewIdentity(t *testing.T) {
	issues := []*model.Issue{
		makeIssue("u1", "Engine", "Nexon", model.SeverityLow, testNow),
		resolveAt(makeIssue("u1", "Brakes", "Punch", model.SeverityHigh, testNow), testNow),
		makeIssue("u2", "Engine", "Harrier", model.SeverityMedium, testNow),
		resolveAt(makeIssue("u3", "Electrical", "Nexon", model.SeverityHigh, testNow), testNow),
	}

	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate(issues, testNow)

	ov := summary.Overview
	gt.Equal(t, ov.TotalIssues, ov.ResolvedIssues+ov.ActiveIssues)
	gt.Equal(t, 4, ov.TotalIssues)
	gt.Equal(t, 2, ov.ResolvedIssues)
	gt.Equal(t, 2, ov.CriticalIssues)
	gt.Equal(t, 3, ov.TotalUsers)

	total := 0
	for _, row := range summary.SeverityDistribution {
		total += row.Count
	}
	gt.Equal(t, ov.TotalIssues, total)
}

func TestAggregateSortInvariants(t *testing.T) {
	issues := []*model.Issue{
		makeIssue("u1", "Engine", "Nexon", model.SeverityLow, testNow),
		makeIssue("u1", "Engine", "Nexon", model.SeverityLow, testNow),
		makeIssue("u1", "Brakes", "Punch", model.SeverityLow, testNow),
		makeIssue("u1", "Brakes", "Punch", model.SeverityLow, testNow),
		makeIssue("u1", "Brakes", "Punch", model.SeverityLow, testNow),
		makeIssue("u1", "Electrical", "Harrier", model.SeverityLow, testNow),
	}

	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate(issues, testNow)

	for i := 1; i < len(summary.IssuesByModel); i++ {
		gt.True(t, summary.IssuesByModel[i-1].IssueCount >= summary.IssuesByModel[i].IssueCount)
	}
	for i := 1; i < len(summary.IssuesByCategory); i++ {
		gt.True(t, summary.IssuesByCategory[i-1].Count >= summary.IssuesByCategory[i].Count)
	}

	gt.Equal(t, "Punch", summary.IssuesByModel[0].Model)
	gt.Equal(t, "Brakes", summary.IssuesByCategory[0].Category)

	// Color assignment cycles the palette in post-sort order
	gt.Equal(t, model.DefaultChartPalette[0], summary.IssuesByCategory[0].ColorTag)
	gt.Equal(t, model.DefaultChartPalette[1], summary.IssuesByCategory[1].ColorTag)
	gt.Equal(t, model.DefaultChartPalette[2], summary.IssuesByCategory[2].ColorTag)
}

func TestAggregateStableTieBreak(t *testing.T) {
	// Same counts: first-encountered group keeps its place
	issues := []*model.Issue{
		makeIssue("u1", "Engine", "Altroz", model.SeverityLow, testNow),
		makeIssue("u1", "Brakes", "Safari", model.SeverityLow, testNow),
	}

	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate(issues, testNow)

	gt.Equal(t, "Altroz", summary.IssuesByModel[0].Model)
	gt.Equal(t, "Safari", summary.IssuesByModel[1].Model)
	gt.Equal(t, "Engine", summary.IssuesByCategory[0].Category)
	gt.Equal(t, "Brakes", summary.IssuesByCategory[1].Category)
}

func TestAggregateIdempotence(t *testing.T) {
	issues := []*model.Issue{
		makeIssue("u1", "Engine", "Nexon", model.SeverityLow, testNow),
		resolveAt(makeIssue("u2", "Brakes", "", model.SeverityHigh, testNow.AddDate(0, -2, 0)), testNow),
		makeIssue("u2", "", "Punch", model.SeverityMedium, testNow.AddDate(0, -4, 0)),
	}

	agg := analytics.NewAggregator(nil)
	first := agg.Aggregate(issues, testNow)
	second := agg.Aggregate(issues, testNow)

	gt.Equal(t, first, second)
}

func TestAggregateMonthlyTrends(t *testing.T) {
	issues := []*model.Issue{
		makeIssue("u1", "Engine", "Nexon", model.SeverityLow, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)),
		resolveAt(makeIssue("u1", "Engine", "Nexon", model.SeverityLow, time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)), testNow),
		makeIssue("u1", "Engine", "Nexon", model.SeverityLow, time.Date(2023, time.October, 5, 0, 0, 0, 0, time.UTC)),
		// Outside the window: ignored
		makeIssue("u1", "Engine", "Nexon", model.SeverityLow, time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)),
		makeIssue("u1", "Engine", "Nexon", model.SeverityLow, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)),
	}

	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate(issues, testNow)

	trends := summary.MonthlyTrends
	gt.A(t, trends).Length(6).Required()
	gt.Equal(t, []string{"Oct", "Nov", "Dec", "Jan", "Feb", "Mar"}, monthLabels(trends))

	gt.Equal(t, 1, trends[0].IssueCount) // Oct 2023
	gt.Equal(t, 0, trends[1].IssueCount)
	gt.Equal(t, 0, trends[2].IssueCount)
	gt.Equal(t, 1, trends[3].IssueCount) // Jan 2024
	gt.Equal(t, 1, trends[3].ResolvedCount)
	gt.Equal(t, 0, trends[4].IssueCount)
	gt.Equal(t, 1, trends[5].IssueCount) // Mar 2024
}

func TestAggregateTrendYearDisambiguation(t *testing.T) {
	// A window ending in February 2024 covers Sep 2023..Feb 2024. An issue
	// from February 2023 shares the month name but must not be counted.
	now := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	issues := []*model.Issue{
		makeIssue("u1", "Engine", "Nexon", model.SeverityLow, time.Date(2023, time.February, 10, 0, 0, 0, 0, time.UTC)),
	}

	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate(issues, now)

	for _, trend := range summary.MonthlyTrends {
		gt.Equal(t, 0, trend.IssueCount)
	}
}

func monthLabels(trends []model.MonthlyTrend) []string {
	labels := make([]string, 0, len(trends))
	for _, trend := range trends {
		labels = append(labels, trend.Month)
	}
	return labels
}

func TestAggregateCommonFlaws(t *testing.T) {
	issues := []*model.Issue{
		makeIssue("u1", "Engine", "Nexon", model.SeverityHigh, testNow),
		makeIssue("u2", "Engine", "Punch", model.SeverityLow, testNow),
		makeIssue("u3", "Brakes", "Nexon", model.SeverityMedium, testNow),
	}

	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate(issues, testNow)

	gt.A(t, summary.CommonFlaws).Length(2).Required()

	engine := summary.CommonFlaws[0]
	gt.Equal(t, "Engine related issues", engine.Label)
	gt.Equal(t, 2, engine.Frequency)
	// One high, one low: tie resolves toward the more severe label
	gt.Equal(t, model.SeverityHigh, engine.DominantSeverity)
	gt.Equal(t, []string{"Nexon", "Punch"}, engine.AffectedModels)

	brakes := summary.CommonFlaws[1]
	gt.Equal(t, "Brakes related issues", brakes.Label)
	gt.Equal(t, 1, brakes.Frequency)
	gt.Equal(t, model.SeverityMedium, brakes.DominantSeverity)
}

func TestAggregateCommonFlawsTopTen(t *testing.T) {
	var issues []*model.Issue
	for i := 0; i < 12; i++ {
		category := string(rune('A' + i))
		for j := 0; j <= i; j++ {
			issues = append(issues, makeIssue("u1", category, "Nexon", model.SeverityLow, testNow))
		}
	}

	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate(issues, testNow)

	gt.A(t, summary.CommonFlaws).Length(10).Required()
	gt.Equal(t, 12, summary.CommonFlaws[0].Frequency)
	gt.Equal(t, 3, summary.CommonFlaws[9].Frequency)
}

func TestAggregateDefaultSubstitution(t *testing.T) {
	issues := []*model.Issue{
		makeIssue("u1", "", "", model.SeverityLow, testNow),
	}

	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate(issues, testNow)

	gt.Equal(t, "Unknown", summary.IssuesByModel[0].Model)
	gt.Equal(t, "Other", summary.IssuesByCategory[0].Category)
	gt.Equal(t, "Other related issues", summary.CommonFlaws[0].Label)
}

func TestAggregateResolvedWithoutTimestamp(t *testing.T) {
	// Resolved but no resolution timestamp: counted as resolved, excluded
	// from the duration average
	issue := makeIssue("u1", "Engine", "Nexon", model.SeverityLow, testNow)
	issue.Status = model.StatusResolved

	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate([]*model.Issue{issue}, testNow)

	gt.Equal(t, 1, summary.Overview.ResolvedIssues)
	gt.Equal(t, 0, summary.Overview.ActiveIssues)
	gt.Equal(t, 0.0, summary.Overview.AvgResolutionTimeDays)
}

func TestAggregateMissingCreatedAt(t *testing.T) {
	// A record with no creation timestamp still counts in the overview but
	// is excluded from trend buckets and duration averaging
	broken := makeIssue("u1", "Engine", "Nexon", model.SeverityLow, time.Time{})
	resolved := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	broken.ResolvedAt = &resolved
	broken.Status = model.StatusResolved

	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate([]*model.Issue{broken}, testNow)

	gt.Equal(t, 1, summary.Overview.TotalIssues)
	gt.Equal(t, 1, summary.Overview.ResolvedIssues)
	gt.Equal(t, 0.0, summary.Overview.AvgResolutionTimeDays)
	for _, trend := range summary.MonthlyTrends {
		gt.Equal(t, 0, trend.IssueCount)
	}
}

func TestAggregateUnknownSeverity(t *testing.T) {
	// A record decoded from an old store document may carry a severity
	// outside the closed set; the distribution still sums to the total
	created := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	issues := []*model.Issue{
		makeIssue("u1", "Engine", "Nexon", model.SeverityHigh, created),
		makeIssue("u2", "Brakes", "Safari", model.Severity(""), created),
	}

	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate(issues, testNow)

	gt.Equal(t, 2, summary.Overview.TotalIssues)

	sum := 0
	for _, row := range summary.SeverityDistribution {
		sum += row.Count
	}
	gt.Equal(t, summary.Overview.TotalIssues, sum)

	gt.A(t, summary.SeverityDistribution).Length(2).Required()
	gt.Equal(t, "High", summary.SeverityDistribution[0].Severity)
	gt.Equal(t, "Unknown", summary.SeverityDistribution[1].Severity)
	gt.Equal(t, 50, summary.SeverityDistribution[1].Percentage)
}

func TestAggregateAvgResolutionRounding(t *testing.T) {
	created := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	a := makeIssue("u1", "Engine", "Nexon", model.SeverityLow, created)
	resolveAt(a, created.Add(24*time.Hour))
	b := makeIssue("u1", "Engine", "Nexon", model.SeverityLow, created)
	resolveAt(b, created.Add(2*24*time.Hour+12*time.Hour))

	agg := analytics.NewAggregator(nil)
	summary := agg.Aggregate([]*model.Issue{a, b}, testNow)

	// (1 + 2.5) / 2 = 1.75 -> 1.8
	gt.Equal(t, 1.8, summary.Overview.AvgResolutionTimeDays)
}

func TestAggregateCustomPalette(t *testing.T) {
	palette := []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"}
	issues := []*model.Issue{
		makeIssue("u1", "Engine", "Nexon", model.SeverityLow, testNow),
		makeIssue("u1", "Brakes", "Nexon", model.SeverityLow, testNow),
	}

	agg := analytics.NewAggregator(palette)
	summary := agg.Aggregate(issues, testNow)

	gt.Equal(t, "c1", summary.IssuesByCategory[0].ColorTag)
	gt.Equal(t, "c2", summary.IssuesByCategory[1].ColorTag)
}
