package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	cobra.EnableTraverseRunHooks = true
}

// NewRootCommand creates and returns the root cobra command for transync.
// Exported for testability (SetArgs/SetOut) and docgen.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "transync",
		Short: "Translation catalog synchronizer",
		Long: `transync keeps localized message catalogs in sync with the messages
extracted from a site, one catalog per locale and per plugin, without ever
discarding human translations.`,
		Version: Version,
		// Silence usage on RunE errors (cobra prints usage by default on error)
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format: text, json")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: <site-dir>/.transync/config.yaml)")

	rootCmd.AddCommand(
		newWriteTranslationsCommand(),
		newInitCommand(),
		newDoctorCommand(),
		newPruneCommand(),
		newTranslateCommand(),
		newHistoryCommand(),
		newVersionCommand(),
		newUpdateCommand(),
	)

	return rootCmd
}
