// Package parser turns raw log lines into structured entries. It maintains
// an ordered chain of format-specific parsers with a generic fallback, so
// any non-empty line yields at most one entry.
package parser

import "time"

// LogEntry is the structured form of a single parsed log line. Entries are
// immutable once created.
type LogEntry struct {
	// RawLine is the cleaned original line.
	RawLine string `json:"raw_line"`

	// Timestamp is the parsed, timezone-naive timestamp. Zero when the
	// line carried no recognizable timestamp.
	Timestamp time.Time `json:"timestamp,omitzero"`

	// SourceIP is the source address found in the line, if any.
	SourceIP string `json:"source_ip,omitempty"`

	// Message is the main message content.
	Message string `json:"message"`

	// Fields holds format-specific extracted values.
	Fields map[string]any `json:"fields,omitempty"`

	// LogType names the parser that produced this entry.
	LogType string `json:"log_type"`

	// LineNumber is the 1-based line number in the source.
	LineNumber int `json:"line_number"`
}
