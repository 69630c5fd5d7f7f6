package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/banquet/internal/domain/financials"
	"github.com/okian/banquet/internal/domain/model"
)

// QuoteOptions holds flags for the quote command.
type QuoteOptions struct {
	RulesFile string
	Input     string
	Strict    bool
}

// NewQuoteCommand creates the quote command.
func NewQuoteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QuoteOptions{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute the financial breakdown for one booking",
		Long: `Read a booking (JSON EventInput) and print pricing, costs, staffing,
labor pay, profit distribution and safety warnings.

Without --rules the built-in default rule set is used.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.RulesFile, "rules", "r", "", "rule-set file (.yaml, .yml or .json)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "-", "booking JSON file, or - for stdin")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit with status 1 when the quote has warnings")

	return cmd
}

func runQuote(rootOpts *RootOptions, opts *QuoteOptions, cmd *cobra.Command) error {
	f := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	rs, err := loadRuleSet(opts.RulesFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f.Fail(ExitCommandError, ErrCodeNotFound, "rules file not found", err)
		}
		return f.Fail(ExitCommandError, ErrCodeRules, "cannot load rules", err)
	}
	if opts.RulesFile == "" {
		f.VerboseLog("Using built-in default rules")
	} else {
		f.VerboseLog("Loaded rules from %s", opts.RulesFile)
	}

	in, err := loadBooking(opts.Input, cmd.InOrStdin())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f.Fail(ExitCommandError, ErrCodeNotFound, "booking file not found", err)
		}
		return f.Fail(ExitCommandError, ErrCodeInput, "cannot read booking", err)
	}
	if err := in.Validate(); err != nil {
		return f.Fail(ExitFailure, ErrCodeInput, "invalid booking", err)
	}
	f.VerboseLog("Pricing %d guests, %s event", in.GuestCount(), in.EventType)

	fin := financials.Compute(in, rs)
	if err := f.Success(fin, func(w io.Writer) error { return renderFinancials(w, fin) }); err != nil {
		return err
	}

	if opts.Strict && len(fin.Warnings) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: quote has %d warning(s)", ErrCodeWarnings, len(fin.Warnings)))
	}
	return nil
}

func renderFinancials(out io.Writer, fin model.EventFinancials) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	row := func(label string, v float64) { fmt.Fprintf(w, "%s\t%.2f\t\n", label, v) }

	fmt.Fprintf(w, "Guests\t%d\t\n", fin.Guests.Total)
	fmt.Fprintf(w, "Event\t%s / %s\t\n", fin.EventType, fin.PricingSlot)
	row("Subtotal", fin.Subtotal)
	row(fmt.Sprintf("Gratuity %.1f%%", fin.GratuityPercent), fin.Gratuity)
	row("Distance fee", fin.DistanceFee)
	row("Total charged", fin.TotalCharged)
	row(fmt.Sprintf("Deposit %.1f%%", fin.DepositPercent), fin.DepositAmount)
	row("Balance due", fin.BalanceDue)
	row(fmt.Sprintf("Food cost %.1f%%", fin.FoodCostPercent), fin.FoodCost)
	row("Supplies", fin.SuppliesCost)
	row("Transportation", fin.TransportationCost)
	row("Total costs", fin.TotalCosts)
	row("Labor paid", fin.TotalLaborPaid)
	row("Excess to profit", fin.TotalExcessToProfit)
	row("Gross profit", fin.GrossProfit)
	row("Retained", fin.RetainedAmount)
	row("Distributed", fin.DistributionAmount)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if fin.Staffing.MatchedProfileName != "" {
		fmt.Fprintf(out, "Staff (%s)\n", fin.Staffing.MatchedProfileName)
	} else {
		fmt.Fprintln(out, "Staff")
	}
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, c := range fin.LaborCompensation {
		capped := ""
		if c.WasCapped {
			capped = "capped"
		}
		fmt.Fprintf(w, "  %s\tbase %.2f\tgratuity %.2f\tpaid %.2f\t%s\n", c.Role, c.BasePay, c.GratuityShare, c.FinalPay, capped)
	}
	for _, o := range fin.OwnerDistributions {
		fmt.Fprintf(w, "  owner %s\t%.1f%%\t%.2f\t\t\n", o.Name, o.EquityPercent, o.Amount)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(fin.Warnings) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Warnings")
		for _, msg := range fin.Warnings {
			fmt.Fprintf(out, "  ! %s\n", msg)
		}
	}
	return nil
}
