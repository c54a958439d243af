// Package rules provides the security detection rule catalog and the regex
// matching engine that evaluates it against log lines.
package rules

import (
	"fmt"
	"time"
)

// Severity is an ordered threat level. The order low < medium < high <
// critical is used identically for filtering and risk scoring.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRanks fixes the total order over severities.
var severityRanks = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the position of s in the severity order, or -1 for an
// unknown severity.
func (s Severity) Rank() int {
	if rank, ok := severityRanks[s]; ok {
		return rank
	}
	return -1
}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	return s.Rank() >= 0
}

// AtLeast reports whether s ranks at or above min.
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

// RiskWeight returns the severity's contribution to the composite risk
// score.
func (s Severity) RiskWeight() int {
	switch s {
	case SeverityMedium:
		return 3
	case SeverityHigh:
		return 7
	case SeverityCritical:
		return 15
	default:
		return 1
	}
}

// confidenceBonus is the severity component of the detection confidence
// formula.
func (s Severity) confidenceBonus() float64 {
	switch s {
	case SeverityMedium:
		return 0.1
	case SeverityHigh:
		return 0.2
	case SeverityCritical:
		return 0.3
	default:
		return 0.0
	}
}

// ParseSeverity converts a string into a Severity.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.Valid() {
		return "", fmt.Errorf("invalid severity %q (must be low, medium, high, or critical)", s)
	}
	return sev, nil
}

// DetectionRule defines a single security detection pattern. The pattern is
// a regular expression matched case-insensitively against raw log lines.
type DetectionRule struct {
	// Name uniquely identifies the rule within a catalog.
	Name string `json:"name" yaml:"name"`

	// Description is a human-readable summary of what the rule detects.
	Description string `json:"description" yaml:"description"`

	// Severity is the threat level assigned to matches.
	Severity Severity `json:"severity" yaml:"severity"`

	// Pattern is the regex matched against log lines (case-insensitive).
	Pattern string `json:"pattern" yaml:"pattern"`

	// Category groups related rules (e.g. web_attack, authentication).
	Category string `json:"category" yaml:"category"`

	// Tags classify the rule for filtering and reporting.
	Tags []string `json:"tags" yaml:"tags"`
}

// Detection records a single rule match against a log line. Detections are
// immutable once created.
type Detection struct {
	RuleName    string    `json:"rule_name"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
	MatchedText string    `json:"matched_text"`
	LineNumber  int       `json:"line_number"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`

	// Confidence reflects match strength, always within [0.1, 1.0].
	Confidence float64 `json:"confidence"`
}

// Summary aggregates a list of detections into per-severity, per-category,
// and per-rule counts plus the mean confidence.
type Summary struct {
	Total         int            `json:"total"`
	BySeverity    map[string]int `json:"by_severity"`
	ByCategory    map[string]int `json:"by_category"`
	ByRule        map[string]int `json:"by_rule"`
	ConfidenceAvg float64        `json:"confidence_avg"`
}
