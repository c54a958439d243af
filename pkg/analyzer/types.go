// Package analyzer orchestrates log analysis: chunked reading, parsing,
// rule matching, IP correlation, timeline bucketing, and risk scoring.
package analyzer

import (
	"time"

	"github.com/logsieve/logsieve/pkg/iputil"
	"github.com/logsieve/logsieve/pkg/rules"
)

// AnalysisResult is the complete output of one analyze call.
type AnalysisResult struct {
	// ID uniquely identifies this report for cross-report correlation.
	ID string `json:"id"`

	// Source is the analyzed file path or text-input identifier.
	Source string `json:"source"`

	// TotalLines is the number of lines processed.
	TotalLines int `json:"total_lines"`

	// ParsedLines is the number of lines that produced a LogEntry.
	ParsedLines int `json:"parsed_lines"`

	// BytesProcessed is the total size of the processed lines.
	BytesProcessed int64 `json:"bytes_processed"`

	// Detections holds every rule match, in original line order.
	Detections []rules.Detection `json:"detections"`

	// Summary aggregates detections, IP indicators, and the risk score.
	Summary Summary `json:"summary"`

	// AnalysisTime is how long the analysis took.
	AnalysisTime time.Duration `json:"analysis_time"`

	// LogTypes counts parsed entries by log format.
	LogTypes map[string]int `json:"log_types"`

	// IPAnalysis reports per-address activity and threat associations.
	IPAnalysis IPReport `json:"ip_analysis"`

	// Timeline holds hourly detection buckets, sorted ascending.
	Timeline []TimelineBucket `json:"timeline"`
}

// Summary extends the rule engine's detection summary with IP indicators,
// top threats, and the composite risk score.
type Summary struct {
	rules.Summary

	LogEntriesParsed int           `json:"log_entries_parsed"`
	UniqueIPs        int           `json:"unique_ips"`
	PrivateIPs       int           `json:"private_ips"`
	PublicIPs        int           `json:"public_ips"`
	SuspiciousIPs    int           `json:"suspicious_ips"`
	TopThreats       []ThreatCount `json:"top_threats"`
	RiskScore        RiskScore     `json:"risk_score"`
}

// ThreatCount is one entry of the top-threats ranking.
type ThreatCount struct {
	Rule     string         `json:"rule"`
	Count    int            `json:"count"`
	Severity rules.Severity `json:"severity"`
}

// RiskScore is the composite 0-100 risk metric with its level and the
// factors that raised it.
type RiskScore struct {
	Score   int      `json:"score"`
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
}

// IPReport summarizes all IP activity observed in an analysis.
type IPReport struct {
	TotalUniqueIPs int `json:"total_unique_ips"`
	PrivateIPs     int `json:"private_ips"`
	PublicIPs      int `json:"public_ips"`

	// TopIPs holds the 20 most active addresses by count descending.
	TopIPs []*IPStat `json:"top_ips"`

	// SuspiciousIPs holds every address with at least one associated
	// detection. Unbounded.
	SuspiciousIPs []*IPStat `json:"suspicious_ips"`
}

// IPStat tracks one address's activity across the analyzed input.
type IPStat struct {
	IP        string    `json:"ip"`
	Count     int       `json:"count"`
	IsPrivate bool      `json:"is_private"`
	FirstSeen time.Time `json:"first_seen,omitzero"`
	LastSeen  time.Time `json:"last_seen,omitzero"`

	// Detections whose matched text contains this address.
	Detections []rules.Detection `json:"detections"`

	Geolocation iputil.Geolocation `json:"geolocation"`
}

// TimelineBucket aggregates the detections of one hour.
type TimelineBucket struct {
	// Timestamp is the bucket's start, truncated to the top of the hour.
	Timestamp time.Time `json:"timestamp"`

	TotalDetections int            `json:"total_detections"`
	BySeverity      map[string]int `json:"by_severity"`
	ByCategory      map[string]int `json:"by_category"`

	// Events lists the bucket's detections, capped at maxBucketEvents.
	Events []TimelineEvent `json:"events"`
}

// TimelineEvent is a compact reference to one detection in a bucket.
type TimelineEvent struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Category string `json:"category"`
	Line     int    `json:"line"`
}

// MergedReport combines several analysis results into one cross-file view.
type MergedReport struct {
	TotalFiles        int              `json:"total_files"`
	TotalLines        int              `json:"total_lines"`
	TotalDetections   int              `json:"total_detections"`
	TotalAnalysisTime time.Duration    `json:"total_analysis_time"`
	Files             []string         `json:"files"`
	CombinedSummary   rules.Summary    `json:"combined_summary"`
	RuleOccurrences   map[string]int   `json:"rule_occurrences"`
	Timeline          []TimelineBucket `json:"timeline"`
}
