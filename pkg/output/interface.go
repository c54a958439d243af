// Package output renders analysis results as text, JSON, or CSV.
package output

import (
	"context"
	"io"

	"github.com/logsieve/logsieve/pkg/analyzer"
)

// Formatter renders one analysis result in a specific format.
type Formatter interface {
	// Format renders the result to the given writer.
	Format(ctx context.Context, result *analyzer.AnalysisResult, w io.Writer) error

	// Name returns the format name (text, json, csv).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose enables detailed output including per-IP breakdowns.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool
}
