package transync

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// RunInitWithReader executes the init flow, reading answers from r and
// writing prompts to w. This is separated from the init command for testability.
func RunInitWithReader(siteDir string, r io.Reader, w io.Writer) error {
	absPath, err := filepath.Abs(siteDir)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	if err := EnsureProjectDir(absPath); err != nil {
		return fmt.Errorf("project dir: %w", err)
	}

	scanner := bufio.NewScanner(r)
	ask := func(prompt string) (string, error) {
		fmt.Fprint(w, prompt)
		var answer string
		if scanner.Scan() {
			answer = strings.TrimSpace(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return answer, nil
	}

	defaultLocale, err := ask("Default locale (press Enter for en): ")
	if err != nil {
		return err
	}
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	if err := ValidateLocale(defaultLocale); err != nil {
		return err
	}

	answer, err := ask(fmt.Sprintf("Locales to maintain, comma-separated (press Enter for %s): ", defaultLocale))
	if err != nil {
		return err
	}
	locales := splitList(answer)
	if len(locales) == 0 {
		locales = []string{defaultLocale}
	}

	cfg := &ProjectConfig{
		Locales:       locales,
		DefaultLocale: defaultLocale,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := SaveProjectConfig(absPath, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(w, "\nConfig saved to %s\n", ProjectConfigPath(absPath))
	fmt.Fprintf(w, "  Default locale: %s\n", defaultLocale)
	fmt.Fprintf(w, "  Locales:        %s\n", strings.Join(locales, ", "))
	fmt.Fprintf(w, "  Extraction dir: %s\n", DefaultExtractedDir(absPath))
	return nil
}

// splitList splits a comma-separated list, dropping blanks and duplicates.
func splitList(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}
