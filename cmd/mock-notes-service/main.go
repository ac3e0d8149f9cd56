// Command mock-notes-service runs an in-memory notes API that the contract tests can be
// pointed at.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/foundernote/notes-contract-tests/mockservice"
	"github.com/foundernote/notes-contract-tests/servicedef"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "mock-notes-service",
		Usage: "in-memory notes API for running the contract tests locally",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8111", Usage: "address to listen on", EnvVars: []string{"MOCK_NOTES_ADDR"}},
			&cli.StringSliceFlag{Name: "capability", Usage: "capability to advertise (default: all)"},
			&cli.BoolFlag{Name: "drop-folder-updates", Usage: "accept folder updates without storing them"},
			&cli.BoolFlag{Name: "reorder-tags", Usage: "store tags in reverse order"},
			&cli.BoolFlag{Name: "fail-deletes", Usage: "answer every delete with HTTP 500"},
			&cli.BoolFlag{Name: "degraded", Usage: "report a non-ok health status"},
			&cli.BoolFlag{Name: "leak-tags", Usage: "apply a tags update to every note of the same user"},
			&cli.BoolFlag{Name: "row-shaped-notes", Usage: "return notes with snake_case column names"},
			&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logLevel := slog.LevelInfo
	switch strings.ToUpper(c.String("log-level")) {
	case "DEBUG":
		logLevel = slog.LevelDebug
	case "WARN":
		logLevel = slog.LevelWarn
	case "ERROR":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

	capabilities := servicedef.AllCapabilities
	if c.IsSet("capability") {
		capabilities = c.StringSlice("capability")
	}
	svc := mockservice.New(
		mockservice.WithLogger(logger),
		mockservice.WithCapabilities(capabilities...),
		mockservice.WithBehavior(mockservice.Behavior{
			DropFolderUpdates:  c.Bool("drop-folder-updates"),
			ReorderTags:        c.Bool("reorder-tags"),
			FailDeletes:        c.Bool("fail-deletes"),
			Degraded:           c.Bool("degraded"),
			LeakTagsToAllNotes: c.Bool("leak-tags"),
			RowShapedNotes:     c.Bool("row-shaped-notes"),
		}),
	)

	srv, err := mockservice.Start(c.String("addr"), svc.Handler(), logger)
	if err != nil {
		return err
	}

	select {
	case err := <-srv.Done():
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "notes", svc.NoteCount())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
