package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitranim/sqlcrit/internal/critdef"
)

// CheckResult is the output of the check command.
type CheckResult struct {
	Valid bool `json:"valid"`
	critdef.Stats
}

func (r CheckResult) String() string {
	return fmt.Sprintf("✓ definition valid: %d cols, %d joins, %d where, %d having",
		r.Cols, r.Joins, r.Where, r.Having)
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a definition file without printing SQL",
		Long: `Load and build a YAML definition, reporting unknown fields, unknown
tables or operators, join misconfiguration and parameter mismatches.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	def, _, _, err := renderFile(opts, path, formatter)
	if err != nil {
		return err
	}
	return formatter.Success(CheckResult{Valid: true, Stats: def.Stats()})
}
