package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hironow/transync"
)

func TestInitCommand_RequiresSiteDir(t *testing.T) {
	// given
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"init"})

	// when
	err := cmd.Execute()

	// then
	if err == nil {
		t.Fatal("expected error for missing site-dir, got nil")
	}
}

func TestInitCommand_WritesConfigFromStdin(t *testing.T) {
	// given
	dir := t.TempDir()
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader("en\nen,fr\n"))
	cmd.SetArgs([]string{"init", dir})

	// when
	err := cmd.Execute()

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := transync.LoadProjectConfig(dir)
	if err != nil {
		t.Fatalf("LoadProjectConfig: %v", err)
	}
	if strings.Join(cfg.Locales, ",") != "en,fr" {
		t.Errorf("Locales = %v, want [en fr]", cfg.Locales)
	}
}
