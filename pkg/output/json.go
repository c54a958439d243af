package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/logsieve/logsieve/pkg/analyzer"
)

// JSONFormatter formats results as indented JSON. Timestamps serialize as
// RFC3339 strings; zero timestamps are omitted.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the result as JSON.
func (f *JSONFormatter) Format(ctx context.Context, result *analyzer.AnalysisResult, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(result.Summary)
	}
	return encoder.Encode(result)
}
