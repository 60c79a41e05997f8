package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hironow/transync"
	"github.com/spf13/cobra"
)

func newWriteTranslationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "write-translations [site-dir]",
		Aliases: []string{"write"},
		Short:   "Merge extracted messages into the locale catalogs",
		Long: `Merge the catalogs produced by extraction (.transync/extracted/) into
<site-dir>/i18n/<locale>/ for every configured locale.

Existing translations are kept unless --override is given. Keys that are
no longer extracted are reported but never removed (see 'transync prune').
Catalogs that would be empty are not created.`,
		Example: `  # Sync every configured locale
  transync write-translations ./site

  # Only French, flagging new strings
  transync write-translations --locale fr --message-prefix "[NEW] " ./site

  # Keep syncing while extraction output changes
  transync write-translations --watch ./site`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			locales, _ := cmd.Flags().GetStringSlice("locale")
			for _, l := range locales {
				if err := transync.ValidateLocale(l); err != nil {
					return err
				}
			}
			collision, _ := cmd.Flags().GetString("collision")
			if _, err := transync.ParseCollisionPolicy(collision); err != nil {
				return err
			}
			return nil
		},
		RunE: runWriteTranslations,
	}

	cmd.Flags().StringSlice("locale", nil, "Locale(s) to write (default: all configured locales)")
	cmd.Flags().Bool("override", false, "Replace existing messages with extracted ones")
	cmd.Flags().String("message-prefix", "", "Prefix added to every extracted message")
	cmd.Flags().Int("workers", 0, "Locales synced in parallel (0 = one per locale)")
	cmd.Flags().String("collision", "last-wins", "Plugin default message collisions: last-wins, first-wins, error")
	cmd.Flags().Bool("watch", false, "Re-sync whenever extracted catalogs change")
	cmd.Flags().Bool("no-history", false, "Do not record writes in the history ledger")

	return cmd
}

func runWriteTranslations(cmd *cobra.Command, args []string) error {
	siteDir, err := siteDirArg(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, siteDir)
	if err != nil {
		return err
	}
	outputFmt, _ := cmd.Flags().GetString("output")
	watch, _ := cmd.Flags().GetBool("watch")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	shutdown := initTelemetry()
	defer shutdown()

	if err := transync.EnsureProjectDir(siteDir); err != nil {
		return err
	}

	logger := newLogger(cmd)
	if err := logger.OpenFile(transync.LogPath(siteDir, time.Now().Format("20060102"))); err != nil {
		logger.Warn("log file: %v", err)
	}
	defer logger.Close()

	opts := []transync.Option{
		transync.WithLogger(logger),
		transync.WithCollisionPolicy(cfg.Collision),
	}
	if !noHistory {
		history, err := transync.OpenHistory(transync.HistoryPath(siteDir))
		if err != nil {
			logger.Warn("history disabled: %v", err)
		} else {
			defer history.Close()
			opts = append(opts, transync.WithHistory(history))
		}
	}
	syncer := transync.NewSyncer(opts...)

	ctx := commandContext(cmd)
	report, err := syncer.Sync(ctx, cfg)
	if err != nil {
		return catalogExit(err)
	}
	if err := printSyncReport(cmd.OutOrStdout(), outputFmt, report); err != nil {
		return err
	}

	if !watch {
		return nil
	}
	return syncer.Watch(ctx, cfg, transync.DefaultDebounce, func(r transync.SyncReport, err error) {
		if err != nil {
			logger.Error("sync failed: %v", err)
			return
		}
		if err := printSyncReport(cmd.OutOrStdout(), outputFmt, r); err != nil {
			logger.Error("%v", err)
		}
	}, nil)
}

func printSyncReport(w io.Writer, outputFmt string, report transync.SyncReport) error {
	if outputFmt == "json" {
		results := report.Results
		if results == nil {
			results = []transync.WriteResult{}
		}
		out := struct {
			RunID     string                 `json:"run_id"`
			Written   int                    `json:"written"`
			StaleKeys int                    `json:"stale_keys"`
			Files     []transync.WriteResult `json:"files"`
		}{
			RunID:     report.RunID,
			Written:   report.Written(),
			StaleKeys: report.StaleKeys(),
			Files:     results,
		}
		data, err := json.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	if len(report.Results) == 0 {
		fmt.Fprintln(w, "Nothing to write.")
		return nil
	}
	for _, res := range report.Results {
		status := "skipped (empty)"
		if res.Written {
			status = fmt.Sprintf("%d entries, +%d new", res.Count, res.Added)
		}
		fmt.Fprintf(w, "  %-8s %s: %s\n", res.Locale, res.Path, status)
		if len(res.StaleKeys) > 0 {
			fmt.Fprintf(w, "           stale: %s\n", strings.Join(res.StaleKeys, ", "))
		}
	}
	fmt.Fprintf(w, "\n%d catalog(s) written, %d stale key(s).\n", report.Written(), report.StaleKeys())
	return nil
}
