package cmd

import (
	"fmt"

	"github.com/hironow/transync"
	"github.com/spf13/cobra"
)

func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [site-dir]",
		Short: "Validate every catalog on disk",
		Long: `Validate every catalog under <site-dir>/i18n/ against the catalog format.

Each file must be a JSON object mapping keys to {"message": string,
"description"?: string}. Hand edits that break this shape make
write-translations fail, so run doctor after editing catalogs.`,
		Example: `  # Check the current site
  transync doctor

  # Machine-readable output
  transync doctor -o json ./site`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	siteDir, err := siteDirArg(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, siteDir)
	if err != nil {
		return err
	}
	outputFmt, _ := cmd.Flags().GetString("output")

	checks, err := transync.RunDoctor(siteDir, cfg.I18nDir)
	if err != nil {
		return err
	}

	invalid := 0
	for _, c := range checks {
		if !c.OK {
			invalid++
		}
	}
	failure := func() error {
		if invalid == 0 {
			return nil
		}
		return &ExitError{Code: ExitInvalidCatalog, Err: fmt.Errorf("%d invalid catalog(s)", invalid)}
	}

	if outputFmt == "json" {
		out, err := transync.FormatDoctorJSON(checks)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return failure()
	}

	// text output
	w := cmd.ErrOrStderr()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s╔══════════════════════════════════════════════╗%s\n", transync.ColorCyan, transync.ColorReset)
	fmt.Fprintf(w, "%s║          transync doctor                     ║%s\n", transync.ColorCyan, transync.ColorReset)
	fmt.Fprintf(w, "%s╚══════════════════════════════════════════════╝%s\n", transync.ColorCyan, transync.ColorReset)
	fmt.Fprintln(w)

	if len(checks) == 0 {
		fmt.Fprintf(w, "No catalogs found under %s.\n", cfg.I18nDir)
		return nil
	}
	for _, c := range checks {
		if c.OK {
			fmt.Fprintf(w, "  %s✓%s  %-40s %d entries\n", transync.ColorGreen, transync.ColorReset, c.Path, c.Entries)
		} else {
			fmt.Fprintf(w, "  %s✗%s  %-40s %s\n", transync.ColorRed, transync.ColorReset, c.Path, c.Error)
		}
	}
	fmt.Fprintln(w)

	if invalid == 0 {
		fmt.Fprintln(w, "All catalogs are valid.")
	}
	return failure()
}
