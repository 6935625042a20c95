package main

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/internal/nav"
	"github.com/insurely/insurely/pkg/domain"
)

func newPaymentsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payments",
		Aliases: []string{"payment"},
		Short:   "Record and list premium payments",
	}
	cmd.AddCommand(newPaymentsListCmd(c), newPaymentsRecordCmd(c))
	return cmd
}

func newPaymentsListCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your payments",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			payments, err := c.client.ListMyPayments(cmd.Context())
			if err != nil {
				return err
			}
			l := listing{value: payments, headers: []string{"ID", "DATE", "AMOUNT", "METHOD", "REFERENCE", "POLICY"}}
			for _, p := range payments {
				l.add(p.ID, p.ID, date(p.CreatedAt), money(p.Amount), p.Method, p.Reference, p.UserPolicyID)
			}
			if err := c.emit(asJSON, l); err != nil {
				return err
			}
			if !asJSON && len(payments) > 0 {
				c.printer.Print("\n%s payments, total %s, average %s",
					strconv.Itoa(len(payments)),
					money(domain.TotalAmount(payments)),
					money(domain.AverageAmount(payments)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return withRoute(cmd, nav.PathPayments)
}

func newPaymentsRecordCmd(c *cli) *cobra.Command {
	var f forms.PaymentForm
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a premium payment",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.Reference == "" {
				f.Reference = "PAY-" + strings.ToUpper(uuid.NewString()[:8])
			}
			f.Method = strings.ToUpper(strings.TrimSpace(f.Method))
			if err := forms.Validate(f); err != nil {
				return err
			}
			p, err := c.client.RecordPayment(cmd.Context(), f.Request())
			if err != nil {
				return err
			}
			if c.quiet {
				return c.show(false, p, p.Reference)
			}
			c.printer.Success("recorded %s (%s), reference %s", money(p.Amount), p.Method, p.Reference)
			c.printer.PrintHints("payments record")
			return nil
		},
	}
	cmd.Flags().StringVar(&f.PolicyID, "policy", "", "purchased policy ID")
	cmd.Flags().Float64Var(&f.Amount, "amount", 0, "amount paid")
	cmd.Flags().StringVar(&f.Method, "method", domain.DefaultPaymentMethod, "payment method")
	cmd.Flags().StringVar(&f.Reference, "reference", "", "payment reference (default: generated)")
	return withRoute(cmd, nav.PathPayments)
}
