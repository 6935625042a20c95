// Command insurely is the terminal client for the Insurely insurance
// platform.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/internal/output"
	"github.com/insurely/insurely/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one CLI invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{version: version, in: stdin, out: stdout, errOut: stderr}
	defer c.close()
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return output.ExitSuccess
	}
	cliErr := toCLIError(err)
	c.errPrinter().FormatError(cliErr)
	return cliErr.ExitCode
}

// toCLIError maps any command error to a structured error with an exit code.
func toCLIError(err error) *output.CLIError {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		return output.InvalidInput(verr.Errors)
	}
	var httpErr *client.HTTPError
	if !errors.As(err, &httpErr) {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitGeneral}
	}
	switch httpErr.StatusCode {
	case 401:
		return &output.CLIError{
			Summary:       client.UserMessage(err, "session expired or invalid"),
			BackendStatus: httpErr.StatusCode,
			Suggestion:    "Run 'insurely login'",
			ExitCode:      output.ExitAuthRequired,
		}
	case 403:
		return &output.CLIError{
			Summary:       client.UserMessage(err, "permission denied"),
			BackendStatus: httpErr.StatusCode,
			ExitCode:      output.ExitForbidden,
		}
	}
	return &output.CLIError{
		Summary:       client.UserMessage(err, "request failed"),
		BackendStatus: httpErr.StatusCode,
		ExitCode:      output.ExitGeneral,
	}
}
