package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logsieve/logsieve/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	SampleSize int
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect which log formats a file contains",
		Long: `Sample the head of a log file and report which formats it contains
(apache_access, syslog, windows_event, firewall, json, generic) with
each format's share of the sample.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.SampleSize, "sample-size", 100, "Number of lines to sample")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.DetectFromFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Sampled %d lines, %d parsed\n\n", result.SampledLines, result.ParsedLines)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No recognizable log format found")
		return nil
	}

	fmt.Fprintln(w, "Detected formats:")
	for _, match := range result.Matches {
		fmt.Fprintf(w, "  %-15s %5.1f%%  (%d lines)\n",
			match.Format, match.Confidence*100, match.MatchCount)
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "\nBest match: %s\n", best.Format)
	fmt.Fprintf(w, "Sample: %s\n", best.SampleLine)
	return nil
}
