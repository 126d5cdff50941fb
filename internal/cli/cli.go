package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/nsoverlay/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// prefixList collects repeated -prefix flags.
type prefixList []string

func (p *prefixList) String() string { return strings.Join(*p, ",") }

func (p *prefixList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("nsoverlay", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
nsoverlay - Binds override units onto introspected namespaces and shows the result.

Usage:
  nsoverlay [options] NAMESPACE [ATTR...]

Arguments:
  NAMESPACE
    Namespace to describe, e.g. GLib. Without ATTR its attribute names are listed.
  ATTR
    Attributes whose values are printed. Deprecated ones log a warning.

Options:
`)
		flagSet.PrintDefaults()
	}

	var prefixes prefixList
	repositoryFlag := flagSet.String("repository-path", "repository", "Path to the namespace dump file or directory.")
	overridesFlag := flagSet.String("overrides-path", "", "Directory holding <Namespace>.hcl and <Namespace>.go override units.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.Var(&prefixes, "prefix", "Alias prefix a namespace is registered under; repeatable, the last one is primary.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No namespace provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		RepositoryPath: *repositoryFlag,
		OverridesPath:  *overridesFlag,
		Namespace:      flagSet.Arg(0),
		Attributes:     flagSet.Args()[1:],
		Prefixes:       prefixes,
		LogFormat:      strings.ToLower(*logFormatFlag),
		LogLevel:       strings.ToLower(*logLevelFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
