package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/shipline/internal/app"
	"github.com/vk/shipline/internal/cli"
	"github.com/vk/shipline/internal/execx"
	"github.com/vk/shipline/internal/hcladapter"
	"github.com/vk/shipline/internal/pipeline"
)

// main is the entrypoint for the shipline application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		// The built artifact's own exit status is the pipeline's exit
		// status; nothing more to report.
		var invErr *pipeline.InvocationExitError
		if errors.As(err, &invErr) {
			os.Exit(invErr.Code)
		}
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Config decoding can panic deep inside third-party parsing on truly
	// malformed input; recover into a clean error for the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	loader := hcladapter.NewLoader()
	shiplineApp, err := app.New(outW, appConfig, loader, execx.NewLocal())
	if err != nil {
		return err
	}

	return shiplineApp.Run(context.Background())
}
