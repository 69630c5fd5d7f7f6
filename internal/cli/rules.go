package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/banquet/internal/domain/rules"
	"github.com/okian/banquet/internal/domain/safety"
)

// NormalizeResult is the JSON payload of "rules normalize".
type NormalizeResult struct {
	Rules    rules.RuleSet `json:"rules"`
	Warnings []string      `json:"warnings"`
}

// NewRulesCommand creates the rules command group.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect rule sets",
	}
	cmd.AddCommand(newRulesDefaultsCommand(rootOpts))
	cmd.AddCommand(newRulesNormalizeCommand(rootOpts))
	return cmd
}

func newRulesDefaultsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "defaults",
		Short:        "Print the built-in rule set",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			rs := rules.Defaults()
			return f.Success(rs, func(w io.Writer) error {
				return (&OutputFormatter{Writer: w}).JSON(rs)
			})
		},
	}
}

func newRulesNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <file>",
		Short: "Print the complete rule set a stored document normalizes to",
		Long: `Load a stored rule-set document (partial, legacy or current), migrate and
normalize it, and print the complete result along with owner-equity warnings.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			rs, err := loadRuleSet(args[0])
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return f.Fail(ExitCommandError, ErrCodeNotFound, "rules file not found", err)
				}
				return f.Fail(ExitCommandError, ErrCodeRules, "cannot load rules", err)
			}
			f.VerboseLog("Normalized %s to version %d", args[0], rs.Version)

			res := NormalizeResult{Rules: rs, Warnings: safety.CheckEquity(rs)}
			return f.Success(res, func(w io.Writer) error {
				if err := (&OutputFormatter{Writer: w}).JSON(rs); err != nil {
					return err
				}
				for _, msg := range res.Warnings {
					fmt.Fprintf(w, "! %s\n", msg)
				}
				return nil
			})
		},
	}
}
