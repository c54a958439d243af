package analyzer

import (
	"github.com/logsieve/logsieve/pkg/rules"
)

// Merge combines several analysis results into one cross-file report.
// The combined summary is recomputed over the union of detections rather
// than summed from per-file summaries, so confidence averages stay exact.
func Merge(results []*AnalysisResult) *MergedReport {
	report := &MergedReport{
		TotalFiles:      len(results),
		Files:           make([]string, 0, len(results)),
		RuleOccurrences: make(map[string]int),
	}

	var union []rules.Detection
	timelines := make([][]TimelineBucket, 0, len(results))

	for _, result := range results {
		if result == nil {
			report.TotalFiles--
			continue
		}
		report.Files = append(report.Files, result.Source)
		report.TotalLines += result.TotalLines
		report.TotalDetections += len(result.Detections)
		report.TotalAnalysisTime += result.AnalysisTime
		union = append(union, result.Detections...)
		for _, d := range result.Detections {
			report.RuleOccurrences[d.RuleName]++
		}
		if len(result.Timeline) > 0 {
			timelines = append(timelines, result.Timeline)
		}
	}

	report.CombinedSummary = rules.Summarize(union)
	report.Timeline = mergeTimelines(timelines)
	return report
}
