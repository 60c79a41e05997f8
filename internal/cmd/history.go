package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hironow/transync"
	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [site-dir]",
		Short: "Show recent catalog writes",
		Long: `Show the most recent catalog writes recorded by write-translations in
.transync/.run/history.db, newest first.`,
		Example: `  # Last 20 writes
  transync history ./site

  # Last 5 writes as JSON
  transync history --limit 5 -o json ./site`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 20, "Number of entries to show")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	siteDir, err := siteDirArg(args)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	outputFmt, _ := cmd.Flags().GetString("output")
	w := cmd.OutOrStdout()

	path := transync.HistoryPath(siteDir)
	var entries []transync.HistoryEntry
	if _, err := os.Stat(path); err == nil {
		history, err := transync.OpenHistory(path)
		if err != nil {
			return err
		}
		defer history.Close()
		entries, err = history.Recent(commandContext(cmd), limit)
		if err != nil {
			return err
		}
	}

	if outputFmt == "json" {
		if entries == nil {
			entries = []transync.HistoryEntry{}
		}
		data, err := json.Marshal(entries)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No writes recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-8s %-6d +%-4d stale:%-3d %s\n",
			e.At.Local().Format("2006-01-02 15:04:05"), e.Locale, e.Count, e.Added, len(e.StaleKeys), e.Path)
	}
	return nil
}
