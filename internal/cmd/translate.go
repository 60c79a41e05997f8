package cmd

import (
	"fmt"

	"github.com/hironow/transync"
	"github.com/spf13/cobra"
)

func newTranslateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <key> [site-dir]",
		Short: "Render a code message for a locale",
		Long: `Render the code message <key> the way a site build would: the locale's
code catalog overlaid on the extracted defaults, falling back to the
default locale when the key is not translated.`,
		Example: `  # French rendering of a key
  transync translate --locale fr theme.footer.copyright ./site

  # With template data
  transync translate --locale fr --data count=3 search.results ./site`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runTranslate,
	}

	cmd.Flags().String("locale", "", "Locale to render (default: the default locale)")
	cmd.Flags().StringToString("data", nil, "Template data as key=value pairs")

	return cmd
}

func runTranslate(cmd *cobra.Command, args []string) error {
	key := args[0]
	siteDir, err := siteDirArg(args[1:])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, siteDir)
	if err != nil {
		return err
	}
	locale, _ := cmd.Flags().GetString("locale")
	if locale == "" {
		locale = cfg.DefaultLocale
	}
	raw, _ := cmd.Flags().GetStringToString("data")
	data := make(map[string]any, len(raw))
	for k, v := range raw {
		data[k] = v
	}

	syncer := transync.NewSyncer(transync.WithLogger(newLogger(cmd)))
	bundle, err := syncer.LoadBundle(commandContext(cmd), cfg)
	if err != nil {
		return err
	}
	msg, err := transync.Translate(bundle, locale, key, data)
	if err != nil {
		return fmt.Errorf("translate %q: %w", key, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
