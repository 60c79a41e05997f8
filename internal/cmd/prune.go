package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hironow/transync"
	"github.com/spf13/cobra"
)

func newPruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune [site-dir]",
		Short: "Remove keys that are no longer extracted",
		Long: `List the keys present in locale catalogs but absent from the current
extraction. write-translations only warns about them; prune removes them.

Dry-run by default. With --execute, catalogs are rewritten without the
stale keys and catalogs left empty are deleted.`,
		Example: `  # See what would be removed
  transync prune ./site

  # Remove stale keys from the French catalogs
  transync prune --locale fr --execute ./site`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPrune,
	}

	cmd.Flags().StringSlice("locale", nil, "Locale(s) to prune (default: all configured locales)")
	cmd.Flags().Bool("execute", false, "Rewrite catalogs (dry-run by default)")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	siteDir, err := siteDirArg(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, siteDir)
	if err != nil {
		return err
	}
	execute, _ := cmd.Flags().GetBool("execute")
	outputFmt, _ := cmd.Flags().GetString("output")

	syncer := transync.NewSyncer(transync.WithLogger(newLogger(cmd)))
	result, err := syncer.Prune(commandContext(cmd), cfg, execute)
	if err != nil {
		return catalogExit(err)
	}

	w := cmd.OutOrStdout()
	if outputFmt == "json" {
		files := result.Files
		if files == nil {
			files = []transync.PrunedFile{}
		}
		out := struct {
			StaleKeys int                   `json:"stale_keys"`
			Rewritten int                   `json:"rewritten"`
			Files     []transync.PrunedFile `json:"files"`
		}{
			StaleKeys: result.StaleKeys(),
			Rewritten: result.Rewritten,
			Files:     files,
		}
		data, err := json.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	// text output
	if len(result.Files) == 0 {
		fmt.Fprintln(w, "No stale keys.")
		return nil
	}
	if execute {
		fmt.Fprintf(w, "Pruned %d key(s) from %d file(s):\n", result.StaleKeys(), result.Rewritten)
	} else {
		fmt.Fprintf(w, "Stale keys (%d in %d file(s), dry-run):\n", result.StaleKeys(), len(result.Files))
	}
	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s: %s\n", f.Path, strings.Join(f.StaleKeys, ", "))
	}
	if !execute {
		fmt.Fprintln(w, "\nRun with --execute to remove them.")
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Note: catalogs are git-tracked. Run 'git diff' to review the removals.")
	return nil
}
