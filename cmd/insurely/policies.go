package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/internal/nav"
	"github.com/insurely/insurely/pkg/domain"
)

func newPoliciesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "policies",
		Aliases: []string{"policy"},
		Short:   "Browse, buy and manage policies",
	}
	cmd.AddCommand(
		newPoliciesListCmd(c),
		newPoliciesShowCmd(c),
		newPoliciesCreateCmd(c),
		newPoliciesDeleteCmd(c),
		newPoliciesPurchaseCmd(c),
		newPoliciesMineCmd(c),
		newPoliciesCancelCmd(c),
	)
	return cmd
}

func newPoliciesListCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the policy catalog",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := c.client.ListPolicyProducts(cmd.Context())
			if err != nil {
				return err
			}
			l := listing{value: products, headers: []string{"ID", "CODE", "TITLE", "PREMIUM", "TERM"}}
			for _, p := range products {
				l.add(p.ID, p.ID, p.Code, p.Title, money(p.Premium), strconv.Itoa(p.TermMonths)+" months")
			}
			if err := c.emit(asJSON, l); err != nil {
				return err
			}
			if !asJSON {
				c.printer.PrintHints("policies list")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return withRoute(cmd, nav.PathPolicies)
}

func newPoliciesShowCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one policy product",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.client.GetPolicyProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.show(asJSON, p, p.ID,
				"ID", p.ID,
				"Code", p.Code,
				"Title", p.Title,
				"Description", p.Description,
				"Premium", money(p.Premium),
				"Term", strconv.Itoa(p.TermMonths)+" months",
				"Min cover", money(p.MinSumInsured),
			)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return withRoute(cmd, nav.PathPolicyDetail)
}

func newPoliciesCreateCmd(c *cli) *cobra.Command {
	var f forms.ProductForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a product to the catalog (admin)",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := forms.Validate(f); err != nil {
				return err
			}
			p, err := c.client.CreatePolicyProduct(cmd.Context(), f.Product())
			if err != nil {
				return err
			}
			c.printer.Success("created %s (%s)", p.Title, p.ID)
			if c.quiet {
				return c.show(false, p, p.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Code, "code", "", "product code")
	cmd.Flags().StringVar(&f.Title, "title", "", "product title")
	cmd.Flags().StringVar(&f.Description, "description", "", "product description")
	cmd.Flags().Float64Var(&f.Premium, "premium", 0, "premium per term")
	cmd.Flags().IntVar(&f.TermMonths, "term", 12, "term in months")
	return withRoute(cmd, nav.PathAdmin)
}

func newPoliciesDeleteCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a product from the catalog (admin)",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.client.DeletePolicyProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			msg := "deleted " + args[0]
			if resp != nil && resp.Message != "" {
				msg = resp.Message
			}
			c.printer.Success("%s", msg)
			return nil
		},
	}
	return withRoute(cmd, nav.PathAdmin)
}

func newPoliciesPurchaseCmd(c *cli) *cobra.Command {
	var (
		f      forms.PurchaseForm
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "purchase <id>",
		Short: "Buy a policy product",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.TermMonths == 0 {
				p, err := c.client.GetPolicyProduct(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				f.TermMonths = max(p.TermMonths, 1)
			}
			f.NomineeName = strings.TrimSpace(f.NomineeName)
			f.NomineeRelation = strings.TrimSpace(f.NomineeRelation)
			if err := forms.Validate(f); err != nil {
				return err
			}
			up, err := c.client.PurchasePolicy(cmd.Context(), args[0], f.Request())
			if err != nil {
				return err
			}
			if asJSON || c.quiet {
				return c.show(asJSON, up, up.ID)
			}
			c.printer.Success("purchased %s, policy %s", up.PolicyProduct.Title, up.ID)
			c.printer.Print("covered %s to %s", date(up.StartDate), date(up.EndDate))
			c.printer.PrintHints("policies purchase")
			return nil
		},
	}
	cmd.Flags().StringVar(&f.StartDate, "start", time.Now().Format(forms.DateLayout), "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.TermMonths, "term", 0, "term in months (default: the product's term)")
	cmd.Flags().StringVar(&f.NomineeName, "nominee-name", "", "nominee name")
	cmd.Flags().StringVar(&f.NomineeRelation, "nominee-relation", "", "nominee relation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return withRoute(cmd, nav.PathPolicyDetail)
}

func newPoliciesMineCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List the policies you have bought",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			policies, err := c.client.ListMyPolicies(cmd.Context())
			if err != nil {
				return err
			}
			l := listing{value: policies, headers: []string{"ID", "POLICY", "STATUS", "FROM", "TO", "PREMIUM"}}
			for _, p := range policies {
				l.add(p.ID, p.ID, p.PolicyProduct.Title, c.printer.StatusBadge(p.Status),
					date(p.StartDate), date(p.EndDate), money(p.PremiumPaid))
			}
			if err := c.emit(asJSON, l); err != nil {
				return err
			}
			if !asJSON && len(policies) > 0 {
				c.printer.Print("\n%d active", domain.CountActive(policies))
				c.printer.PrintHints("policies mine")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return withRoute(cmd, nav.PathMyPolicies)
}

func newPoliciesCancelCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <policy-id>",
		Short: "Cancel one of your policies",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			up, err := c.client.CancelPolicy(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c.printer.Success("policy %s is now %s", up.ID, c.printer.StatusBadge(up.Status))
			return nil
		},
	}
	return withRoute(cmd, nav.PathMyPolicies)
}
