package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/insurely/insurely/internal/tui"
)

func newTUICmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:         "tui [path]",
		Annotations: map[string]string{tuiAnnotation: "true"},
		Short:       "Open the interactive terminal UI",
		Long: `Open the interactive terminal UI, optionally at a screen such as /claims.
Screens you may not open redirect the same way the web frontend does.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			start := ""
			if len(args) == 1 {
				start = args[0]
			}
			return c.runTUI(cmd, start)
		},
	}
}

// runTUI runs the terminal UI until the user quits. init has already
// pointed c.logger at the log file.
func (c *cli) runTUI(cmd *cobra.Command, start string) error {
	app := tui.NewApp(tui.Options{
		Client:  c.client,
		Session: c.session,
		Router:  c.router,
		WebURL:  c.cfg.Web.URL,
		Start:   start,
		Logger:  c.logger,
	})
	defer app.Close()

	c.logger.Info("tui started", "start", start, "version", c.version)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()), tea.WithInput(c.in), tea.WithOutput(c.out))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
