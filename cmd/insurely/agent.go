package main

import (
	"github.com/spf13/cobra"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/internal/nav"
	"github.com/insurely/insurely/pkg/domain"
)

func newAgentCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Work assigned customers and claims (agent only)",
	}
	cmd.AddCommand(newAgentUsersCmd(c), newAgentClaimsCmd(c), newAgentDecideCmd(c))
	return cmd
}

func newAgentUsersCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List the customers assigned to you",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := c.client.AssignedUsers(cmd.Context())
			if err != nil {
				return err
			}
			l := listing{value: users, headers: []string{"ID", "NAME", "EMAIL"}}
			for _, u := range users {
				l.add(u.ID, u.ID, u.Name, u.Email)
			}
			return c.emit(asJSON, l)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return withRoute(cmd, nav.PathAgent)
}

func newAgentClaimsCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "claims",
		Short: "List claims of your customers",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, err := c.client.AssignedClaims(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.emit(asJSON, c.claimListing(claims)); err != nil {
				return err
			}
			if !asJSON && domain.CountPending(claims) > 0 {
				c.printer.PrintHints("agent claims")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return withRoute(cmd, nav.PathAgent)
}

func newAgentDecideCmd(c *cli) *cobra.Command {
	return decisionCmd(c, "decide <id> <APPROVED|REJECTED|PENDING>", "Decide a claim of one of your customers", nav.PathAgent,
		func(cmd *cobra.Command, id string, f forms.ClaimDecisionForm) (*domain.Claim, error) {
			return c.client.AgentUpdateClaim(cmd.Context(), id, f.Request())
		})
}
