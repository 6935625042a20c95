package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/insurely/insurely/internal/config"
	"github.com/insurely/insurely/internal/nav"
	"github.com/insurely/insurely/internal/output"
	"github.com/insurely/insurely/internal/session"
	"github.com/insurely/insurely/pkg/client"
)

// routeAnnotation names the screen whose access rules a command follows.
const routeAnnotation = "insurely/route"

// tuiAnnotation marks commands that run the terminal UI. They log to a file
// in the state directory since the UI owns the terminal.
const tuiAnnotation = "insurely/tui"

// cli holds the state shared by every command of one invocation.
type cli struct {
	version string
	in      io.Reader
	out     io.Writer
	errOut  io.Writer

	cfgFile   string
	colorMode string
	quiet     bool
	verbose   bool

	cfg     *config.Config
	logger  *slog.Logger
	printer *output.Printer
	session *session.Manager
	client  *client.Client
	router  *nav.Router
	logFile *os.File
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "insurely",
		Short: "Insurance policies, claims and payments from the terminal",
		Long: `insurely talks to the Insurely backend. Without a subcommand it opens the
interactive terminal UI.

Example usage:
  insurely login --email me@example.com --password-stdin
  insurely policies list
  insurely policies purchase <id> --nominee-name Sam --nominee-relation spouse
  insurely claims submit --policy <id> --amount 250 --description "Burst pipe"
  insurely admin summary`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{tuiAnnotation: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if offline(cmd) {
				return nil
			}
			if err := c.init(cmd); err != nil {
				return err
			}
			return c.authorize(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd, "")
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is .insurely.yaml)")
	root.PersistentFlags().StringVar(&c.colorMode, "color", "auto", "color output: auto, always or never")
	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "only print results")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "verbose logging")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})

	root.AddCommand(
		newLoginCmd(c),
		newRegisterCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newTUICmd(c),
		newPoliciesCmd(c),
		newClaimsCmd(c),
		newPaymentsCmd(c),
		newAdminCmd(c),
		newAgentCmd(c),
		newWebCmd(c),
		newVersionCmd(c),
	)
	return root
}

// init loads configuration, sets up logging for cmd and wires the session
// and API client.
func (c *cli) init(cmd *cobra.Command) error {
	mode, err := output.ParseColorMode(c.colorMode)
	if err != nil {
		return usageError(err)
	}

	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:    "invalid configuration",
			Detail:     err.Error(),
			Suggestion: "Check .insurely.yaml and INSURELY_* variables",
			ExitCode:   output.ExitConfigError,
		}
	}
	c.cfg = cfg
	c.printer = output.NewPrinter(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: cfg.Output.Colors,
		Quiet:        c.quiet,
		Out:          c.out,
		Err:          c.errOut,
	})
	logOut := c.errOut
	if cmd.Annotations[tuiAnnotation] != "" {
		f, err := openLogFile(cfg.State.Dir)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		c.logFile = f
		logOut = f
	}
	c.logger = newLogger(logOut, cfg.Logging, c.verbose)
	c.logger.Debug("configuration loaded",
		"api_url", cfg.API.URL,
		"state_dir", cfg.State.Dir,
		"config_file", config.FileUsed(c.cfgFile),
	)
	c.wire()
	return nil
}

// wire builds the session, API client and router on top of c.logger.
func (c *cli) wire() {
	cfg := c.cfg
	auth := client.New(cfg.API.URL, nil, client.WithTimeout(cfg.API.Timeout), client.WithLogger(c.logger))
	c.session = session.NewManager(auth, session.NewFileStore(cfg.State.Dir),
		session.WithLogger(c.logger),
		session.WithTokenOverride(cfg.Token),
	)
	c.client = client.New(cfg.API.URL, c.session, client.WithTimeout(cfg.API.Timeout), client.WithLogger(c.logger))
	c.router = nav.NewRouter(nav.DefaultRoutes())
}

// authorize applies the access rules of the command's screen, if any.
func (c *cli) authorize(cmd *cobra.Command) error {
	route := cmd.Annotations[routeAnnotation]
	if route == "" {
		return nil
	}
	m, err := c.router.Navigate(c.session, route)
	if err != nil {
		return err
	}
	if !m.Redirected {
		return nil
	}
	c.logger.Debug("command refused", "command", cmd.CommandPath(), "route", route, "redirect", m.Path)
	if m.Path == nav.PathLogin {
		return output.NotLoggedIn()
	}
	return c.denied(cmd)
}

// denied refuses cmd for the signed-in role.
func (c *cli) denied(cmd *cobra.Command) error {
	var role string
	if u := c.session.CurrentIdentity(); u != nil {
		role = u.Role
	}
	return output.PermissionDenied(cmd.CommandPath(), role)
}

// close releases what init opened.
func (c *cli) close() {
	if c.logFile != nil {
		c.logFile.Close()
	}
}

// errPrinter returns a printer for error output, even when init failed.
func (c *cli) errPrinter() *output.Printer {
	if c.printer != nil {
		return c.printer
	}
	mode, _ := output.ParseColorMode(c.colorMode)
	return output.NewPrinter(output.PrinterOptions{ColorMode: mode, ConfigColors: true, Out: c.out, Err: c.errOut})
}

func newLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openLogFile opens <state dir>/insurely.log for appending.
func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, "insurely.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

func usageError(err error) error {
	return &output.CLIError{
		Summary:    err.Error(),
		Suggestion: "Run with --help for usage",
		ExitCode:   output.ExitUsageError,
	}
}

// exactArgs is cobra.ExactArgs with a usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// offline reports whether cmd runs without configuration or a session.
func offline(cmd *cobra.Command) bool {
	for ; cmd != nil; cmd = cmd.Parent() {
		switch {
		case cmd.Annotations[offlineAnnotation] != "":
			return true
		case cmd.Name() == "help", cmd.Name() == "completion":
			return true
		}
	}
	return false
}

// withRoute marks cmd as subject to the access rules of route.
func withRoute(cmd *cobra.Command, route string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[routeAnnotation] = route
	return cmd
}
