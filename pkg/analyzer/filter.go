package analyzer

import (
	"github.com/logsieve/logsieve/pkg/rules"
)

// FilterResult narrows a result to detections at or above minSeverity and,
// when category is non-empty, within that category. Detection-derived
// aggregates (summary counts, top threats, risk score, timeline) are
// recomputed over the filtered set; IP activity counts are observations,
// not detections, and are kept as analyzed.
func FilterResult(result *AnalysisResult, minSeverity rules.Severity, category string) *AnalysisResult {
	if result == nil {
		return nil
	}

	filtered := result.Detections
	if minSeverity != "" {
		filtered = rules.FilterBySeverity(filtered, minSeverity)
	}
	if category != "" {
		filtered = rules.FilterByCategory(filtered, category)
	}

	out := *result
	out.Detections = filtered
	out.Timeline = buildTimeline(filtered)

	out.Summary = result.Summary
	out.Summary.Summary = rules.Summarize(filtered)
	out.Summary.TopThreats = topThreats(filtered, 10)
	out.Summary.RiskScore = computeRiskScore(filtered,
		result.Summary.SuspiciousIPs, result.Summary.PublicIPs)
	return &out
}
