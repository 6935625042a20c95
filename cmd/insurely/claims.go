package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/internal/nav"
	"github.com/insurely/insurely/pkg/domain"
)

func newClaimsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "claims",
		Aliases: []string{"claim"},
		Short:   "File and track claims",
	}
	cmd.AddCommand(
		newClaimsListCmd(c),
		newClaimsShowCmd(c),
		newClaimsSubmitCmd(c),
		newClaimsStatusCmd(c),
	)
	return cmd
}

func (c *cli) claimListing(claims []domain.Claim) listing {
	l := listing{value: claims, headers: []string{"ID", "POLICY", "INCIDENT", "AMOUNT", "STATUS", "DESCRIPTION"}}
	for _, cl := range claims {
		desc := strings.Join(strings.Fields(cl.Description), " ")
		if len(desc) > 40 {
			desc = desc[:39] + "…"
		}
		l.add(cl.ID, cl.ID, cl.UserPolicyID, date(cl.IncidentDate), money(cl.AmountClaimed),
			c.printer.StatusBadge(cl.Status), desc)
	}
	return l
}

func newClaimsListCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List claims",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, err := c.client.ListClaims(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.emit(asJSON, c.claimListing(claims)); err != nil {
				return err
			}
			if !asJSON && len(claims) > 0 {
				c.printer.Print("\n%d pending", domain.CountPending(claims))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return withRoute(cmd, nav.PathClaims)
}

func newClaimsShowCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one claim",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.client.GetClaim(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.show(asJSON, cl, cl.ID,
				"ID", cl.ID,
				"Policy", cl.UserPolicyID,
				"Incident", date(cl.IncidentDate),
				"Amount", money(cl.AmountClaimed),
				"Status", c.printer.StatusBadge(cl.Status),
				"Description", cl.Description,
				"Notes", cl.DecisionNotes,
				"Filed", date(cl.CreatedAt),
			)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return withRoute(cmd, nav.PathClaims)
}

func newClaimsSubmitCmd(c *cli) *cobra.Command {
	var f forms.ClaimForm
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "File a claim against one of your policies",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Description = strings.TrimSpace(f.Description)
			if err := forms.Validate(f); err != nil {
				return err
			}
			cl, err := c.client.SubmitClaim(cmd.Context(), f.Request())
			if err != nil {
				return err
			}
			if c.quiet {
				return c.show(false, cl, cl.ID)
			}
			c.printer.Success("claim %s submitted, status %s", cl.ID, c.printer.StatusBadge(cl.Status))
			c.printer.PrintHints("claims submit")
			return nil
		},
	}
	cmd.Flags().StringVar(&f.PolicyID, "policy", "", "purchased policy ID")
	cmd.Flags().StringVar(&f.IncidentDate, "date", time.Now().Format(forms.DateLayout), "incident date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.Description, "description", "", "what happened")
	cmd.Flags().Float64Var(&f.Amount, "amount", 0, "amount claimed")
	return withRoute(cmd, nav.PathClaims)
}

// decisionCmd builds a command that sets a claim's status. update does the
// call; route names the screen whose rules apply.
func decisionCmd(c *cli, use, short, route string, update func(*cobra.Command, string, forms.ClaimDecisionForm) (*domain.Claim, error)) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := forms.ClaimDecisionForm{Status: strings.ToUpper(args[1]), Notes: strings.TrimSpace(notes)}
			if err := forms.Validate(f); err != nil {
				return err
			}
			cl, err := update(cmd, args[0], f)
			if err != nil {
				return err
			}
			c.printer.Success("claim %s is now %s", cl.ID, c.printer.StatusBadge(cl.Status))
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "decision notes")
	return withRoute(cmd, route)
}

func newClaimsStatusCmd(c *cli) *cobra.Command {
	cmd := decisionCmd(c, "status <id> <APPROVED|REJECTED|PENDING>", "Decide any claim (admin or agent)", nav.PathClaims,
		func(cmd *cobra.Command, id string, f forms.ClaimDecisionForm) (*domain.Claim, error) {
			return c.client.UpdateClaimStatus(cmd.Context(), id, f.Request())
		})
	cmd.Long = `Set the status of any claim through the staff endpoint.

Admins and agents may both use it. Agents who only handle their own
customers' claims can use 'insurely agent decide' instead.`
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		if u := c.session.CurrentIdentity(); !u.HasRole(domain.RoleAdmin, domain.RoleAgent) {
			return c.denied(cmd)
		}
		return nil
	}
	return cmd
}
