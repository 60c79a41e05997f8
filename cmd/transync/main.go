package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hironow/transync/internal/cmd"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OTEL_* and TRANSYNC_QUIET may come from a local .env; a missing file is fine.
	_ = godotenv.Load()

	rootCmd := cmd.NewRootCommand()

	// `transync [flags] <site-dir>` is shorthand for write-translations.
	args := os.Args[1:]
	if cmd.NeedsDefaultCommand(rootCmd, args) {
		args = append([]string{cmd.DefaultCommand}, args...)
	}
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
