package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/logsieve/logsieve/internal/logging"
	"github.com/logsieve/logsieve/pkg/analyzer"
)

// ScanOptions holds command-line options for the scan command.
type ScanOptions struct {
	Pattern   string
	Output    string
	Severity  string
	MaxLines  int
	RulesFile string
	Verbose   bool
	Quiet     bool
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	opts := &ScanOptions{}

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Analyze every log file in a directory",
		Long: `Scan a directory for log files matching a glob pattern, analyze each
one, and merge the results into a single cross-file report.

Patterns support "**" for recursive matching (e.g. --pattern '**/*.log').
A file that fails to analyze is skipped; the scan always completes.

Exit codes:
  0 - No threats detected
  1 - Threats detected
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Pattern, "pattern", "p", analyzer.DefaultScanPattern, "File glob to match")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write merged JSON report to file")
	cmd.Flags().StringVarP(&opts.Severity, "severity", "s", "", "Filter by minimum severity (low|medium|high|critical)")
	cmd.Flags().IntVar(&opts.MaxLines, "max-lines", 0, "Maximum lines to analyze per file (0 = unlimited)")
	cmd.Flags().StringVar(&opts.RulesFile, "rules-file", "", "YAML file with custom rules")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show per-file breakdown")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runScan(cmd *cobra.Command, args []string, opts *ScanOptions) error {
	dir := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	minSeverity, err := parseSeverityFlag(opts.Severity)
	if err != nil {
		return err
	}

	log := logging.New(opts.Verbose, opts.Quiet)
	defer func() { _ = log.Sync() }()

	a, err := newAnalyzer(opts.RulesFile, log)
	if err != nil {
		return err
	}

	results, err := a.AnalyzeDirectory(ctx, dir, opts.Pattern, opts.MaxLines)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No log files found or analyzed")
		return nil
	}

	if minSeverity != "" {
		for i, result := range results {
			results[i] = analyzer.FilterResult(result, minSeverity, "")
		}
	}

	merged := analyzer.Merge(results)
	printScanSummary(cmd, results, merged, opts.Verbose)

	if opts.Output != "" {
		data, err := json.MarshalIndent(merged, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding merged report: %w", err)
		}
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", opts.Output, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Merged results exported to %s\n", opts.Output)
	}

	if merged.TotalDetections > 0 {
		ExitCode = 1
	}
	return nil
}

func printScanSummary(cmd *cobra.Command, results []*analyzer.AnalysisResult, merged *analyzer.MergedReport, verbose bool) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "=== LogSieve Directory Scan ===")
	fmt.Fprintf(w, "Files analyzed: %d\n", merged.TotalFiles)
	fmt.Fprintf(w, "Total lines: %d\n", merged.TotalLines)
	fmt.Fprintf(w, "Total detections: %d\n", merged.TotalDetections)
	fmt.Fprintln(w)

	if verbose {
		for _, result := range results {
			fmt.Fprintf(w, "  %s: %d lines, %d detections, risk %d (%s)\n",
				result.Source, result.TotalLines, len(result.Detections),
				result.Summary.RiskScore.Score, result.Summary.RiskScore.Level)
		}
		fmt.Fprintln(w)
	}

	if len(merged.RuleOccurrences) > 0 {
		type ruleCount struct {
			name  string
			count int
		}
		counts := make([]ruleCount, 0, len(merged.RuleOccurrences))
		for name, count := range merged.RuleOccurrences {
			counts = append(counts, ruleCount{name, count})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].name < counts[j].name
		})

		fmt.Fprintln(w, "Rule occurrences across files:")
		for _, rc := range counts {
			fmt.Fprintf(w, "  %-30s %d\n", rc.name, rc.count)
		}
		fmt.Fprintln(w)
	}
}
