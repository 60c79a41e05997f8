package cmd

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// releaseSlug is the GitHub repository releases are fetched from.
const releaseSlug = "hironow/transync"

func newUpdateCommand() *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Self-update transync to the latest release",
		Long: `Self-update transync to the latest GitHub release.

Downloads the latest release, verifies the checksum, and replaces
the current binary. Use --check to only check for updates without
installing.`,
		Example: `  # Check for updates
  transync update --check

  # Update to the latest version
  transync update`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			updater, err := selfupdate.NewUpdater(selfupdate.Config{
				Validator: &selfupdate.ChecksumValidator{UniqueFilename: "checksums.txt"},
			})
			if err != nil {
				return fmt.Errorf("failed to create updater: %w", err)
			}

			latest, found, err := updater.DetectLatest(cmd.Context(), selfupdate.ParseSlug(releaseSlug))
			if err != nil {
				return fmt.Errorf("failed to detect latest version: %w", err)
			}
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), "No release found.")
				return nil
			}

			status, newer := compareRelease(Version, latest.Version())
			if !newer || checkOnly {
				fmt.Fprintln(cmd.OutOrStdout(), status)
				return nil
			}

			exe, err := selfupdate.ExecutablePath()
			if err != nil {
				return fmt.Errorf("failed to locate executable: %w", err)
			}
			if err := updater.UpdateTo(cmd.Context(), latest, exe); err != nil {
				return fmt.Errorf("update failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated to v%s\n", latest.Version())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&checkOnly, "check", "C", false, "Check for updates without installing")

	return cmd
}

// compareRelease describes how current relates to the latest release and
// reports whether an update should be installed.
func compareRelease(current, latest string) (string, bool) {
	// "dev" and other local builds are not semver and cannot be compared.
	cur, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return fmt.Sprintf("Development build (version %q), cannot compare versions.\nLatest release: v%s", current, latest), false
	}
	lat, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return fmt.Sprintf("Latest release has an invalid version %q.", latest), false
	}
	if !cur.LessThan(lat) {
		return fmt.Sprintf("Already up to date (v%s).", cur), false
	}
	return fmt.Sprintf("Update available: v%s → v%s", cur, lat), true
}
