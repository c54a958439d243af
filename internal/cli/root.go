// Package cli provides the command-line interface for LogSieve.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/logsieve/logsieve/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logsieve",
		Short: "Scan log files for security threats",
		Long: `LogSieve is a security log analysis tool that detects threats in log files.

It parses common log formats (Apache/Nginx access logs, syslog, Windows
event logs, iptables firewall logs, JSON lines) and matches every line
against a catalog of attack-detection rules:

  - Authentication abuse (failed logins, brute force, credential stuffing)
  - Web attacks (SQL injection, XSS, path traversal, command injection)
  - Network reconnaissance (port scans, DNS tunneling)
  - Malware indicators (reverse shells, crypto mining)
  - Data exfiltration

Each analysis produces per-IP activity reports, an hourly threat
timeline, and a composite 0-100 risk score.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
