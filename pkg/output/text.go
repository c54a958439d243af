package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/logsieve/logsieve/pkg/analyzer"
	"github.com/logsieve/logsieve/pkg/textutil"
)

// TextFormatter formats results as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the result as text.
func (f *TextFormatter) Format(ctx context.Context, result *analyzer.AnalysisResult, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(result, w)
	}
	return f.formatFull(result, w)
}

func (f *TextFormatter) formatQuiet(result *analyzer.AnalysisResult, w io.Writer) error {
	fmt.Fprintf(w, "LogSieve: %d lines analyzed, %d detections, risk %d (%s)\n",
		result.TotalLines,
		len(result.Detections),
		result.Summary.RiskScore.Score,
		result.Summary.RiskScore.Level)
	return nil
}

func (f *TextFormatter) formatFull(result *analyzer.AnalysisResult, w io.Writer) error {
	fmt.Fprintln(w, "=== LogSieve Analysis Report ===")
	fmt.Fprintf(w, "Source: %s\n", result.Source)
	fmt.Fprintf(w, "Lines: %d total, %d parsed (%s)\n",
		result.TotalLines, result.ParsedLines, textutil.FormatBytes(result.BytesProcessed))
	fmt.Fprintf(w, "Elapsed: %s\n", result.AnalysisTime.Round(time.Millisecond))
	fmt.Fprintln(w)

	f.formatRisk(result, w)
	f.formatDetections(result, w)
	f.formatThreats(result, w)
	f.formatIPs(result, w)
	if f.opts.Verbose {
		f.formatTimeline(result, w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d detections across %d lines, risk level %s\n",
		result.Summary.Total, result.TotalLines, result.Summary.RiskScore.Level)
	return nil
}

func (f *TextFormatter) formatRisk(result *analyzer.AnalysisResult, w io.Writer) {
	risk := result.Summary.RiskScore
	fmt.Fprintf(w, "Risk Score: %d/100 (%s)\n", risk.Score, strings.ToUpper(risk.Level))
	for _, factor := range risk.Factors {
		fmt.Fprintf(w, "  - %s\n", factor)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatDetections(result *analyzer.AnalysisResult, w io.Writer) {
	if len(result.Detections) == 0 {
		fmt.Fprintln(w, "No threats detected.")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "Detections (%d):\n", len(result.Detections))
	for _, d := range result.Detections {
		fmt.Fprintf(w, "  [%s] line %d: %s (%s, confidence %.2f)\n",
			strings.ToUpper(string(d.Severity)), d.LineNumber, d.RuleName,
			d.Category, d.Confidence)
		if f.opts.Verbose {
			fmt.Fprintf(w, "      %s\n", d.MatchedText)
			if encodings := textutil.DetectEncodings(d.MatchedText); len(encodings) > 0 &&
				textutil.Entropy(d.MatchedText) > 4.0 {
				fmt.Fprintf(w, "      possible obfuscation: %s\n", strings.Join(encodings, ", "))
			}
		}
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatThreats(result *analyzer.AnalysisResult, w io.Writer) {
	if len(result.Summary.TopThreats) == 0 {
		return
	}
	fmt.Fprintln(w, "Top Threats:")
	for _, threat := range result.Summary.TopThreats {
		fmt.Fprintf(w, "  %-30s %4d hits (%s)\n", threat.Rule, threat.Count, threat.Severity)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatIPs(result *analyzer.AnalysisResult, w io.Writer) {
	if len(result.IPAnalysis.SuspiciousIPs) == 0 {
		return
	}
	fmt.Fprintf(w, "Suspicious IPs (%d):\n", len(result.IPAnalysis.SuspiciousIPs))
	for _, stat := range result.IPAnalysis.SuspiciousIPs {
		kind := "public"
		if stat.IsPrivate {
			kind = "private"
		}
		fmt.Fprintf(w, "  %-15s %d sightings, %d detections (%s)\n",
			stat.IP, stat.Count, len(stat.Detections), kind)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatTimeline(result *analyzer.AnalysisResult, w io.Writer) {
	if len(result.Timeline) == 0 {
		return
	}
	fmt.Fprintln(w, "Timeline:")
	for _, bucket := range result.Timeline {
		fmt.Fprintf(w, "  %s  %d detections\n",
			bucket.Timestamp.Format("2006-01-02 15:04"), bucket.TotalDetections)
	}
	fmt.Fprintln(w)
}
