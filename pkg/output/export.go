package output

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/logsieve/logsieve/pkg/analyzer"
)

// NewFormatter returns the formatter for a format name. Unknown formats
// are a caller error.
func NewFormatter(format string, opts FormatOptions) (Formatter, error) {
	switch strings.ToLower(format) {
	case "text", "":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	case "csv":
		return NewCSVFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Export renders a result in the named format. The format is validated
// before any rendering happens.
func Export(result *analyzer.AnalysisResult, format string) ([]byte, error) {
	formatter, err := NewFormatter(format, FormatOptions{})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := formatter.Format(context.Background(), result, &buf); err != nil {
		return nil, fmt.Errorf("formatting result: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFile renders a result and writes it to path. The format is
// validated before the file is created.
func ExportFile(result *analyzer.AnalysisResult, format, path string) error {
	data, err := Export(result, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
