package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/logsieve/logsieve/internal/logging"
	"github.com/logsieve/logsieve/pkg/analyzer"
	"github.com/logsieve/logsieve/pkg/config"
	"github.com/logsieve/logsieve/pkg/output"
	"github.com/logsieve/logsieve/pkg/rules"
	"github.com/logsieve/logsieve/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Output    string
	Format    string
	Severity  string
	Category  string
	MaxLines  int
	RulesFile string
	Verbose   bool
	Quiet     bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <log-file>",
		Short: "Analyze a log file for security threats",
		Long: `Analyze a single log file against the detection rule catalog.

Pass "-" as the log file to read from stdin. Compressed inputs with a
.gz or .zst suffix are decompressed transparently.

Exit codes:
  0 - No threats detected
  1 - Threats detected
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write results to file instead of stdout")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "Output format (text|json|csv)")
	cmd.Flags().StringVarP(&opts.Severity, "severity", "s", "", "Filter by minimum severity (low|medium|high|critical)")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Filter by threat category")
	cmd.Flags().IntVar(&opts.MaxLines, "max-lines", 0, "Maximum lines to analyze (0 = unlimited)")
	cmd.Flags().StringVar(&opts.RulesFile, "rules-file", "", "YAML file with custom rules")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show matched text and timeline")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_threats", "When to fire webhook (on_threats|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	logFile := args[0]
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

	var result *analyzer.AnalysisResult
	if logFile == "-" {
		result, err = a.AnalyzeReader(ctx, os.Stdin, "stdin", opts.MaxLines)
	} else {
		result, err = a.AnalyzeFile(ctx, logFile, opts.MaxLines)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	filtered := analyzer.FilterResult(result, minSeverity, opts.Category)

	if err := writeResult(cmd, filtered, opts); err != nil {
		return err
	}

	sendWebhook(ctx, opts, filtered)

	if len(filtered.Detections) > 0 {
		ExitCode = 1
	}
	return nil
}

// newAnalyzer builds an analyzer, applying a custom rules file if given.
func newAnalyzer(rulesFile string, log *zap.Logger) (*analyzer.Analyzer, error) {
	analyzerOpts := []analyzer.Option{analyzer.WithLogger(log)}

	if rulesFile != "" {
		file, err := config.Load(rulesFile)
		if err != nil {
			return nil, err
		}
		analyzerOpts = append(analyzerOpts,
			analyzer.WithCustomRules(file.DetectionRules()),
			analyzer.WithDisabledRules(file.Disable))
	}
	return analyzer.New(analyzerOpts...), nil
}

func parseSeverityFlag(value string) (rules.Severity, error) {
	if value == "" {
		return "", nil
	}
	sev, err := rules.ParseSeverity(value)
	if err != nil {
		return "", fmt.Errorf("invalid --severity: %w", err)
	}
	return sev, nil
}

func writeResult(cmd *cobra.Command, result *analyzer.AnalysisResult, opts *AnalyzeOptions) error {
	formatter, err := output.NewFormatter(opts.Format, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	if opts.Output != "" {
		if err := output.ExportFile(result, opts.Format, opts.Output); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Results exported to %s\n", opts.Output)
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := formatter.Format(ctx, result, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	return nil
}

// sendWebhook posts the result to the configured endpoint. Errors are
// logged to stderr but don't fail the analysis.
func sendWebhook(ctx context.Context, opts *AnalyzeOptions, result *analyzer.AnalysisResult) {
	if opts.WebhookURL == "" {
		return
	}
	if !shouldFireWebhook(opts.WebhookTrigger, len(result.Detections) > 0) {
		return
	}

	client := webhook.NewClient()
	resp := client.Send(ctx, result, webhook.SendOptions{
		URL:     opts.WebhookURL,
		Token:   opts.WebhookToken,
		Timeout: 10 * time.Second,
	})
	if resp.Success() {
		fmt.Fprintf(os.Stderr, "Webhook: sent (%d, %s)\n", resp.StatusCode, resp.Duration)
	} else {
		fmt.Fprintf(os.Stderr, "Webhook: failed (%v)\n", resp.Error)
	}
}

func shouldFireWebhook(trigger string, hasThreats bool) bool {
	switch trigger {
	case "always":
		return true
	case "never":
		return false
	default: // on_threats
		return hasThreats
	}
}
