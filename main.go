package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/foundernote/notes-contract-tests/framework"
	"github.com/foundernote/notes-contract-tests/notesapi"
	"github.com/foundernote/notes-contract-tests/notetests"
	"github.com/foundernote/notes-contract-tests/servicedef"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  commandName,
		Usage: "check that a notes API stores tags and folders correctly",
		Flags: commandFlags(),

		// Regex filters may contain commas.
		DisableSliceFlagSeparator: true,
		Action: func(c *cli.Context) error {
			params, err := readParams(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if !run(ctx, params, os.Stdout) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the suite and prints the report. It returns true only if every test that
// ran passed and the run was not aborted.
func run(ctx context.Context, params commandParams, out io.Writer) bool {
	logger := newLogger(out, params.LogLevel)
	client := notesapi.NewClient(
		params.ServiceURL,
		notesapi.WithTimeout(params.Timeout),
		notesapi.WithLogger(logger),
	)

	var status *servicedef.ServiceStatus
	if params.AwaitService > 0 {
		awaited, err := client.AwaitService(ctx, params.AwaitService, out)
		if err != nil {
			fmt.Fprintf(out, "Notes API error: %s\n", err)
			return false
		}
		if awaited.Status != "" {
			status = &awaited
		}
	}
	if status == nil {
		// A failure here is reported by the health check scenario.
		if s, err := client.Health(ctx); err == nil {
			status = &s
		}
	}

	fmt.Fprintln(out)
	var hasCapability func(string) bool
	if status != nil {
		hasCapability = status.HasCapability
	}
	framework.PrintFilterDescription(out, params.filters, servicedef.AllCapabilities, hasCapability)

	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.Debug || params.DebugAll,
		DebugOutputOnSuccess: params.DebugAll,
	}

	results := notetests.RunTestSuite(
		client,
		notetests.SuiteParams{Context: ctx, UserID: params.UserID, Logger: logger, Status: status},
		params.filters.AsFilter,
		testLogger,
	)

	fmt.Fprintln(out)
	framework.PrintResults(out, results)
	if cmd := params.rerunCommand(results); cmd != "" {
		fmt.Fprintf(out, "\nTo run only the failed tests again:\n  %s\n", cmd)
	}
	return results.OK()
}

func newLogger(out io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format("15:04:05"))
			}
			return a
		},
	}))
}
