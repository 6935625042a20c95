package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/internal/nav"
)

func newAdminCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer the platform (admin only)",
	}
	cmd.AddCommand(
		newAdminSummaryCmd(c),
		newAdminAuditCmd(c),
		newAdminUsersCmd(c),
		newAdminAgentsCmd(c),
		newAdminCreateAgentCmd(c),
		newAdminAssignCmd(c),
	)
	return cmd
}

func newAdminSummaryCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show platform counters",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.client.AdminSummary(cmd.Context())
			if err != nil {
				return err
			}
			return c.show(asJSON, s, strconv.Itoa(s.Users),
				"Users", strconv.Itoa(s.Users),
				"Policies sold", strconv.Itoa(s.PoliciesSold),
				"Claims pending", strconv.Itoa(s.ClaimsPending),
				"Payments", money(s.TotalPayments),
			)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return withRoute(cmd, nav.PathAdminSummary)
}

func newAdminAuditCmd(c *cli) *cobra.Command {
	var (
		asJSON bool
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			logs, err := c.client.AuditLogs(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(logs) > limit {
				logs = logs[:limit]
			}
			l := listing{value: logs, headers: []string{"TIME", "ACTION", "ACTOR", "DETAILS"}}
			for _, e := range logs {
				actor := e.UserID
				if e.UserName != nil && *e.UserName != "" {
					actor = *e.UserName
				}
				l.add(e.ID, e.Timestamp.Format("2006-01-02 15:04"), e.Action, actor, e.DetailText())
			}
			return c.emit(asJSON, l)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 50, "show at most this many entries (0 for all)")
	return withRoute(cmd, nav.PathAdminAudit)
}

func newAdminUsersCmd(c *cli) *cobra.Command {
	var (
		asJSON bool
		query  string
	)
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List or search users",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := c.client.ListUsers(cmd.Context(), query)
			if err != nil {
				return err
			}
			l := listing{value: users, headers: []string{"ID", "NAME", "EMAIL", "ROLE"}}
			for _, u := range users {
				l.add(u.ID, u.ID, u.Name, u.Email, u.Role)
			}
			return c.emit(asJSON, l)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().StringVar(&query, "query", "", "match name or email")
	return withRoute(cmd, nav.PathAdmin)
}

func newAdminAgentsCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List agents and their customers",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			agents, err := c.client.ListAgents(cmd.Context())
			if err != nil {
				return err
			}
			l := listing{value: agents, headers: []string{"ID", "NAME", "EMAIL", "CUSTOMERS"}}
			for _, a := range agents {
				l.add(a.ID, a.ID, a.Name, a.Email, strconv.Itoa(len(a.AssignedUsers)))
			}
			if err := c.emit(asJSON, l); err != nil {
				return err
			}
			if !asJSON {
				c.printer.PrintHints("admin agents")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return withRoute(cmd, nav.PathAdminAgents)
}

func newAdminCreateAgentCmd(c *cli) *cobra.Command {
	var (
		f          forms.AgentForm
		fromStdin  bool
		passwdFlag string
	)
	cmd := &cobra.Command{
		Use:   "create-agent",
		Short: "Create an agent account",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := c.password(passwdFlag, fromStdin)
			if err != nil {
				return err
			}
			f.Password = pw
			f.Name = strings.TrimSpace(f.Name)
			f.Email = strings.TrimSpace(f.Email)
			if err := forms.Validate(f); err != nil {
				return err
			}
			a, err := c.client.CreateAgent(cmd.Context(), f.Request())
			if err != nil {
				return err
			}
			if c.quiet {
				return c.show(false, a, a.ID)
			}
			c.printer.Success("created agent %s (%s)", a.Name, a.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Name, "name", "", "agent name")
	cmd.Flags().StringVar(&f.Email, "email", "", "agent email")
	cmd.Flags().StringVar(&passwdFlag, "password", "", "initial password")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read the password from stdin")
	return withRoute(cmd, nav.PathAdminAgents)
}

func newAdminAssignCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <agent-id> <user-id>",
		Short: "Assign a customer to an agent",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.client.AssignAgent(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			msg := "assigned " + args[1] + " to " + args[0]
			if resp != nil && resp.Message != "" {
				msg = resp.Message
			}
			c.printer.Success("%s", msg)
			return nil
		},
	}
	return withRoute(cmd, nav.PathAdminAgents)
}
