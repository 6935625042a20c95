package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/internal/nav"
	"github.com/insurely/insurely/pkg/domain"
)

// commandFor suggests the CLI command matching a landing screen.
var commandFor = map[string]string{
	nav.PathAdmin:     "insurely admin summary",
	nav.PathClaims:    "insurely claims list",
	nav.PathDashboard: "insurely policies mine",
}

// readSecret reads one line from r.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) password(flag string, fromStdin bool) (string, error) {
	if fromStdin {
		return readSecret(c.in)
	}
	return flag, nil
}

func newLoginCmd(c *cli) *cobra.Command {
	var (
		f         forms.LoginForm
		pwStdin   bool
		showRoute bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Long: `Sign in with email and password. --role is the role you are signing in as;
it decides where you land and defaults to customer.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := c.password(f.Password, pwStdin)
			if err != nil {
				return err
			}
			f.Password = pw
			f.Email = strings.TrimSpace(f.Email)
			if err := forms.Validate(f); err != nil {
				return err
			}
			sess, err := c.session.Login(cmd.Context(), f.Email, f.Password, f.Role)
			if err != nil {
				return err
			}
			landing := nav.LandingFor(f.Role, sess.User.Role)
			if showRoute {
				fmt.Fprintln(c.out, landing)
				return nil
			}
			if c.quiet {
				return nil
			}
			printWelcome(c.out, sess.User.Name, sess.User.Role, commandFor[landing])
			c.printer.PrintHints("login")
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Email, "email", "", "account email")
	cmd.Flags().StringVar(&f.Password, "password", "", "account password")
	cmd.Flags().BoolVar(&pwStdin, "password-stdin", false, "read the password from stdin")
	cmd.Flags().StringVar(&f.Role, "role", domain.RoleCustomer, "role to sign in as: customer, agent or admin")
	cmd.Flags().BoolVar(&showRoute, "print-landing", false, "print the landing screen path instead of a greeting")
	return cmd
}

func newRegisterCmd(c *cli) *cobra.Command {
	var (
		f       forms.RegisterForm
		pwStdin bool
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a customer account and sign in",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := c.password(f.Password, pwStdin)
			if err != nil {
				return err
			}
			f.Password, f.ConfirmPassword = pw, pw
			f.Name = strings.TrimSpace(f.Name)
			f.Email = strings.TrimSpace(f.Email)
			if err := forms.Validate(f); err != nil {
				return err
			}
			sess, err := c.session.Signup(cmd.Context(), f.Name, f.Email, f.Password)
			if err != nil {
				return err
			}
			if c.quiet {
				return nil
			}
			printWelcome(c.out, sess.User.Name, sess.User.Role, "insurely policies list")
			c.printer.PrintHints("register")
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Name, "name", "", "full name")
	cmd.Flags().StringVar(&f.Email, "email", "", "account email")
	cmd.Flags().StringVar(&f.Password, "password", "", "account password")
	cmd.Flags().BoolVar(&pwStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.session.Logout()
			if !c.quiet {
				printSignedOut(c.out)
			}
			return nil
		},
	}
}

func newWhoamiCmd(c *cli) *cobra.Command {
	var verify bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := c.session.CurrentIdentity()
			if verify {
				me, err := c.client.GetMe(cmd.Context())
				if err != nil {
					return err
				}
				u = me
			}
			if u == nil {
				// Signed in by token override only.
				c.printer.Warning("signed in with a token but no stored user")
				return nil
			}
			p := c.printer
			fmt.Fprintf(c.out, "%s <%s>\n", p.Bold(u.Name), u.Email)
			fmt.Fprintf(c.out, "role:    %s\n", u.Role)
			fmt.Fprintf(c.out, "id:      %s\n", u.ID)
			if exp, ok := c.session.ExpiresAt(); ok {
				when := exp.Local().Format(time.RFC1123)
				if left := time.Until(exp).Round(time.Minute); left > 0 {
					fmt.Fprintf(c.out, "expires: %s (in %s)\n", when, left)
				} else {
					fmt.Fprintf(c.out, "expires: %s %s\n", when, p.StatusBadge("EXPIRED"))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "check the session with the server")
	return withRoute(cmd, nav.PathDashboard)
}
