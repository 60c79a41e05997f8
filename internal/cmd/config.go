package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hironow/transync"
	"github.com/spf13/cobra"
)

// siteDirArg resolves the optional [site-dir] positional argument.
func siteDirArg(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	return abs, nil
}

// loadConfig reads the project config (--config or the site default) and
// applies the command-line overrides the command defines.
func loadConfig(cmd *cobra.Command, siteDir string) (transync.Config, error) {
	var (
		pc  *transync.ProjectConfig
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		pc, err = transync.LoadProjectConfigFile(path)
	} else {
		pc, err = transync.LoadProjectConfig(siteDir)
	}
	if err != nil {
		return transync.Config{}, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("locale") {
		pc.Locales, _ = flags.GetStringSlice("locale")
	}
	if flags.Changed("override") {
		pc.Override, _ = flags.GetBool("override")
	}
	if flags.Changed("message-prefix") {
		pc.MessagePrefix, _ = flags.GetString("message-prefix")
	}
	if flags.Changed("workers") {
		pc.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("collision") {
		pc.Collision, _ = flags.GetString("collision")
	}
	return pc.RuntimeConfig(siteDir)
}

func newLogger(cmd *cobra.Command) *transync.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return transync.NewLogger(cmd.ErrOrStderr(), verbose)
}

// initTelemetry starts tracing and metrics and returns their combined shutdown.
func initTelemetry() func() {
	shutdownTracer := transync.InitTracer("transync", Version)
	shutdownMeter := transync.InitMeter("transync", Version)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownTracer(ctx)
		shutdownMeter(ctx)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
