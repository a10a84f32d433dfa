package main

import (
	"fmt"
	"loan-eligibility/internal/domain/credit"
	"loan-eligibility/internal/pkg/coerce"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// emiCmd quotes an installment offline. With --score the interest rate is
// first corrected the way the eligibility check does it. Values are read
// like spreadsheet cells: an unreadable amount or rate counts as 0 and an
// unreadable tenure as one month.
func emiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emi",
		Short: "Quote the monthly installment for a loan",
		Args:  cobra.NoArgs,
		RunE:  runEMI,
	}
	cmd.Flags().String("amount", "", "principal")
	cmd.Flags().String("rate", "", "annual interest rate in percent")
	cmd.Flags().String("tenure", "", "tenure in months")
	cmd.Flags().Int("score", -1, "credit score (0-100) used to correct the rate")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("tenure")
	return cmd
}

func runEMI(cmd *cobra.Command, _ []string) error {
	amount, _ := cmd.Flags().GetString("amount")
	rateArg, _ := cmd.Flags().GetString("rate")
	tenure, _ := cmd.Flags().GetString("tenure")
	score, _ := cmd.Flags().GetInt("score")

	if coerce.Float(amount, 0) < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	if coerce.Int(tenure, 1) < 1 {
		return fmt.Errorf("tenure must be at least 1 month")
	}

	out := cmd.OutOrStdout()
	var rate any = rateArg
	if score >= 0 {
		approved, corrected := credit.CorrectRaw(score, rateArg)
		fmt.Fprintf(out, "tier: %s\n", credit.TierFor(score))
		fmt.Fprintf(out, "approval: %t\n", approved)
		fmt.Fprintf(out, "corrected_interest_rate: %s\n", decimal.NewFromFloat(corrected).String())
		rate = corrected
	}
	fmt.Fprintf(out, "monthly_installment: %s\n", decimal.NewFromFloat(credit.EMIRaw(amount, tenure, rate)).StringFixed(2))
	return nil
}
