package main

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vk/splashload/internal/app"
	"github.com/vk/splashload/internal/cli"
	"github.com/vk/splashload/internal/errors"
)

// embedded holds the resource namespace: component sources and manifests
// shipped inside the binary.
//
//go:embed resources
var embedded embed.FS

// main is the entrypoint for the splashload application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	switch errors.KindOf(err) {
	case errors.KindConfiguration:
		return 2
	case errors.KindDependency:
		return 3
	case errors.KindLoad:
		return 4
	case errors.KindProtocol:
		return 70
	default:
		return 1
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	resources, err := fs.Sub(embedded, "resources")
	if err != nil {
		return fmt.Errorf("failed to open embedded resources: %w", err)
	}

	splash := app.NewApp(outW, appConfig, resources, nil)
	defer splash.Close()

	report, err := splash.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(outW, "Loaded %d components in %s (session %s)\n", len(report.Items), report.Duration().Round(time.Millisecond), report.Session)
	for _, problem := range report.Problems {
		fmt.Fprintf(outW, "  warning: %v\n", problem)
	}
	return nil
}
