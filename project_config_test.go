package transync

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProjectConfigPath(t *testing.T) {
	got := ProjectConfigPath("/tmp/site")
	want := "/tmp/site/.transync/config.yaml"
	if got != want {
		t.Errorf("ProjectConfigPath = %q, want %q", got, want)
	}
}

func TestSaveAndLoadProjectConfig(t *testing.T) {
	dir := t.TempDir()

	cfg := &ProjectConfig{
		Locales:       []string{"en", "fr"},
		DefaultLocale: "en",
		MessagePrefix: "[NEW] ",
		Plugins:       []PluginConfig{{Name: "content-docs", ID: "community", Version: "1.2.0"}},
	}

	if err := SaveProjectConfig(dir, cfg); err != nil {
		t.Fatalf("SaveProjectConfig: %v", err)
	}

	loaded, err := LoadProjectConfig(dir)
	if err != nil {
		t.Fatalf("LoadProjectConfig: %v", err)
	}

	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadProjectConfig_FileNotFound(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadProjectConfig(dir)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if len(cfg.Locales) != 0 {
		t.Errorf("Locales = %v, want empty", cfg.Locales)
	}
}

func TestLoadProjectConfig_TOML(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, ".transync", "config.toml"), `
locales = ["en", "ja"]
default_locale = "en"
override = true
collision = "first-wins"

[[plugins]]
name = "content-blog"
defaults = "plugins/blog/defaults.json"
`)

	cfg, err := LoadProjectConfig(dir)
	if err != nil {
		t.Fatalf("LoadProjectConfig: %v", err)
	}

	want := &ProjectConfig{
		Locales:       []string{"en", "ja"},
		DefaultLocale: "en",
		Override:      true,
		Collision:     "first-wins",
		Plugins:       []PluginConfig{{Name: "content-blog", Defaults: "plugins/blog/defaults.json"}},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadProjectConfig_YAMLTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, ".transync", "config.yaml"), "locales: [fr]\n")
	writeTestFile(t, filepath.Join(dir, ".transync", "config.toml"), `locales = ["de"]`)

	cfg, err := LoadProjectConfig(dir)
	if err != nil {
		t.Fatalf("LoadProjectConfig: %v", err)
	}
	if strings.Join(cfg.Locales, ",") != "fr" {
		t.Errorf("Locales = %v, want [fr]", cfg.Locales)
	}
}

func TestLoadProjectConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, ".transync", "config.yaml"), "locales: [fr\n")

	if _, err := LoadProjectConfig(dir); err == nil {
		t.Fatal("expected error for malformed config, got nil")
	}
}

func TestProjectConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProjectConfig
		wantErr string
	}{
		{"empty", ProjectConfig{}, ""},
		{"valid", ProjectConfig{Locales: []string{"en", "pt-BR"}, Plugins: []PluginConfig{{Name: "docs", Version: "v2.0.0"}}}, ""},
		{"bad locale", ProjectConfig{Locales: []string{"not a locale!"}}, "invalid locale"},
		{"bad default locale", ProjectConfig{DefaultLocale: "??"}, "invalid locale"},
		{"bad collision", ProjectConfig{Collision: "random"}, "unknown collision policy"},
		{"unnamed plugin", ProjectConfig{Plugins: []PluginConfig{{ID: "x"}}}, "without a name"},
		{"separator in name", ProjectConfig{Plugins: []PluginConfig{{Name: "a/b"}}}, "path separators"},
		{"bad version", ProjectConfig{Plugins: []PluginConfig{{Name: "docs", Version: "one"}}}, "invalid version"},
		{"duplicate scope", ProjectConfig{Plugins: []PluginConfig{{Name: "docs"}, {Name: "docs", ID: "default"}}}, "declared twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestProjectConfig_RuntimeConfigDefaults(t *testing.T) {
	// given
	site := t.TempDir()
	pc := &ProjectConfig{}

	// when
	cfg, err := pc.RuntimeConfig(site)

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.I18nDir != DefaultI18nDir {
		t.Errorf("I18nDir = %q, want %q", cfg.I18nDir, DefaultI18nDir)
	}
	if cfg.DefaultLocale != "en" {
		t.Errorf("DefaultLocale = %q, want %q", cfg.DefaultLocale, "en")
	}
	if diff := cmp.Diff([]string{"en"}, cfg.Locales); diff != "" {
		t.Errorf("Locales mismatch (-want +got):\n%s", diff)
	}
	if cfg.ExtractedDir != DefaultExtractedDir(site) {
		t.Errorf("ExtractedDir = %q, want %q", cfg.ExtractedDir, DefaultExtractedDir(site))
	}
	if cfg.Collision != CollisionLastWins {
		t.Errorf("Collision = %v, want last-wins", cfg.Collision)
	}
}

func TestProjectConfig_RuntimeConfigResolvesPaths(t *testing.T) {
	// given
	site := t.TempDir()
	writeTestFile(t, filepath.Join(site, "plugins", "theme.json"), `{"theme.a": "A"}`)
	pc := &ProjectConfig{
		ExtractedDir:  "build/i18n",
		Override:      true,
		MessagePrefix: "> ",
		Collision:     "error",
		Plugins:       []PluginConfig{{Name: "theme", Defaults: "plugins/theme.json"}},
	}

	// when
	cfg, err := pc.RuntimeConfig(site)

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ExtractedDir != filepath.Join(site, "build", "i18n") {
		t.Errorf("ExtractedDir = %q, want it under the site", cfg.ExtractedDir)
	}
	if cfg.Options != (WriteOptions{Override: true, MessagePrefix: "> "}) {
		t.Errorf("Options = %+v", cfg.Options)
	}
	if cfg.Collision != CollisionError {
		t.Errorf("Collision = %v, want error", cfg.Collision)
	}
	if len(cfg.Plugins) != 1 || cfg.Plugins[0].DefaultMessages == nil {
		t.Fatalf("Plugins = %+v, want one plugin with a defaults provider", cfg.Plugins)
	}
	defaults, err := cfg.Plugins[0].DefaultMessages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if defaults["theme.a"] != "A" {
		t.Errorf("theme.a = %q, want %q", defaults["theme.a"], "A")
	}
}

func TestProjectConfig_RuntimeConfigRejectsInvalid(t *testing.T) {
	pc := &ProjectConfig{Locales: []string{"not a locale!"}}
	if _, err := pc.RuntimeConfig(t.TempDir()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
