package cmd

import (
	"fmt"

	"github.com/hironow/transync"
	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init <site-dir>",
		Short: "Initialize project configuration",
		Long: `Initialize a .transync/ directory in the target site.

Creates config.yaml with the default locale and the locales to maintain,
and git-ignores .transync/.run/ (logs, history ledger).`,
		Example: `  # Initialize a new site
  transync init ./site

  # Initialize and then sync
  transync init ./site && transync write-translations ./site`,
		Args: cobra.ExactArgs(1),
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	w := cmd.ErrOrStderr()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s╔══════════════════════════════════════════════╗%s\n", transync.ColorCyan, transync.ColorReset)
	fmt.Fprintf(w, "%s║          transync init                       ║%s\n", transync.ColorCyan, transync.ColorReset)
	fmt.Fprintf(w, "%s╚══════════════════════════════════════════════╝%s\n", transync.ColorCyan, transync.ColorReset)
	fmt.Fprintln(w)

	return transync.RunInitWithReader(args[0], cmd.InOrStdin(), w)
}
