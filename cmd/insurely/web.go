package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insurely/insurely/internal/browser"
	"github.com/insurely/insurely/internal/nav"
)

func newWebCmd(c *cli) *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "web [path]",
		Short: "Open a screen in the web frontend",
		Long: `Open a screen of the web frontend in the default browser, for example
"insurely web /user/policies". The path defaults to /dashboard and is
checked against your role first.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := nav.PathDashboard
			if len(args) == 1 {
				path = args[0]
			}
			m, err := c.router.Navigate(c.session, path)
			if err != nil {
				return err
			}
			if m.Redirected {
				c.printer.Warning("%s is not available, opening %s", path, m.Path)
			}
			u, err := browser.ScreenURL(c.cfg.Web.URL, m.Path)
			if err != nil {
				return usageError(err)
			}
			if printOnly {
				fmt.Fprintln(c.out, u)
				return nil
			}
			c.logger.Debug("opening browser", "url", u)
			if err := browser.Open(u); err != nil {
				return err
			}
			c.printer.Info("opened %s", u)
			return nil
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the URL instead of opening it")
	return cmd
}
