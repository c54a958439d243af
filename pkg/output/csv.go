package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/logsieve/logsieve/pkg/analyzer"
)

// csvMatchedTextLimit truncates matched text so one long line cannot
// dominate the sheet.
const csvMatchedTextLimit = 100

var csvHeader = []string{
	"Line Number", "Timestamp", "Severity", "Rule Name",
	"Category", "Description", "Matched Text", "Confidence",
}

// CSVFormatter writes one row per detection. Summary data and IP analysis
// are not part of the CSV surface.
type CSVFormatter struct {
	opts FormatOptions
}

// NewCSVFormatter creates a new CSV formatter with the given options.
func NewCSVFormatter(opts FormatOptions) *CSVFormatter {
	return &CSVFormatter{opts: opts}
}

// Name returns the format name.
func (f *CSVFormatter) Name() string {
	return "csv"
}

// Format renders the result's detections as CSV.
func (f *CSVFormatter) Format(ctx context.Context, result *analyzer.AnalysisResult, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, d := range result.Detections {
		timestamp := ""
		if !d.Timestamp.IsZero() {
			timestamp = d.Timestamp.Format(time.RFC3339)
		}
		matched := d.MatchedText
		if len(matched) > csvMatchedTextLimit {
			matched = matched[:csvMatchedTextLimit]
		}
		row := []string{
			strconv.Itoa(d.LineNumber),
			timestamp,
			string(d.Severity),
			d.RuleName,
			d.Category,
			d.Description,
			matched,
			fmt.Sprintf("%.2f", d.Confidence),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
