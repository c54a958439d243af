package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logsieve/logsieve/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <rules-file>",
		Short: "Validate a custom rules file",
		Long: `Validate a YAML rules file without running an analysis. Every pattern
is compiled and every severity checked, so a broken rule is reported
here instead of mid-analysis.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := config.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d custom rule(s), %d disabled rule(s)\n",
				args[0], len(file.Rules), len(file.Disable))
			return nil
		},
	}
}
