// Command docgen renders the transync CLI reference as markdown and man pages.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hironow/transync/internal/cmd"
	"github.com/spf13/cobra/doc"
)

func main() {
	root := "docs"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	mdDir := filepath.Join(root, "cli")
	manDir := filepath.Join(root, "man")

	for _, dir := range []string{mdDir, manDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	rootCmd := cmd.NewRootCommand()
	rootCmd.DisableAutoGenTag = true

	if err := doc.GenMarkdownTree(rootCmd, mdDir); err != nil {
		fmt.Fprintf(os.Stderr, "docgen markdown: %v\n", err)
		os.Exit(1)
	}
	header := &doc.GenManHeader{Title: "TRANSYNC", Section: "1", Source: "transync " + cmd.Version}
	if err := doc.GenManTree(rootCmd, header, manDir); err != nil {
		fmt.Fprintf(os.Stderr, "docgen man: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Generated CLI docs in %s/ and man pages in %s/\n", mdDir, manDir)
}
