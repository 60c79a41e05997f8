package transync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ProjectConfig holds site-scoped configuration stored in
// .transync/config.yaml (or config.toml).
type ProjectConfig struct {
	I18nDir       string         `yaml:"i18n_dir,omitempty" toml:"i18n_dir,omitempty"`
	Locales       []string       `yaml:"locales" toml:"locales"`
	DefaultLocale string         `yaml:"default_locale,omitempty" toml:"default_locale,omitempty"`
	ExtractedDir  string         `yaml:"extracted_dir,omitempty" toml:"extracted_dir,omitempty"`
	Override      bool           `yaml:"override,omitempty" toml:"override,omitempty"`
	MessagePrefix string         `yaml:"message_prefix,omitempty" toml:"message_prefix,omitempty"`
	Workers       int            `yaml:"workers,omitempty" toml:"workers,omitempty"`
	Collision     string         `yaml:"collision,omitempty" toml:"collision,omitempty"`
	Plugins       []PluginConfig `yaml:"plugins,omitempty" toml:"plugins,omitempty"`
}

// PluginConfig declares a plugin and where its default messages live.
type PluginConfig struct {
	Name     string `yaml:"name" toml:"name"`
	ID       string `yaml:"id,omitempty" toml:"id,omitempty"`
	Version  string `yaml:"version,omitempty" toml:"version,omitempty"`
	Defaults string `yaml:"defaults,omitempty" toml:"defaults,omitempty"` // relative to the site root
}

// ProjectConfigPath returns the path to the YAML project config file.
func ProjectConfigPath(siteDir string) string {
	return filepath.Join(ProjectDir(siteDir), "config.yaml")
}

// LoadProjectConfig reads .transync/config.yaml, falling back to
// .transync/config.toml. Returns a zero-value config (no error) if
// neither exists.
func LoadProjectConfig(siteDir string) (*ProjectConfig, error) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		cfg, err := LoadProjectConfigFile(filepath.Join(ProjectDir(siteDir), name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		return cfg, nil
	}
	return &ProjectConfig{}, nil
}

// LoadProjectConfigFile reads a config file, choosing the decoder by extension.
func LoadProjectConfigFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ProjectConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveProjectConfig writes cfg to .transync/config.yaml.
func SaveProjectConfig(siteDir string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(ProjectDir(siteDir), 0755); err != nil {
		return err
	}
	return os.WriteFile(ProjectConfigPath(siteDir), data, 0644)
}

// ValidateLocale reports whether s is a well-formed BCP 47 tag.
func ValidateLocale(s string) error {
	if _, err := language.Parse(s); err != nil {
		return fmt.Errorf("invalid locale %q: %w", s, err)
	}
	return nil
}

// Validate checks locales, plugin names, versions and uniqueness of
// plugin scopes.
func (c *ProjectConfig) Validate() error {
	for _, l := range c.Locales {
		if err := ValidateLocale(l); err != nil {
			return err
		}
	}
	if c.DefaultLocale != "" {
		if err := ValidateLocale(c.DefaultLocale); err != nil {
			return err
		}
	}
	if _, err := ParseCollisionPolicy(c.Collision); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, p := range c.Plugins {
		if p.Name == "" {
			return errors.New("plugin without a name")
		}
		if strings.ContainsAny(p.Name+p.ID, `/\`) {
			return fmt.Errorf("plugin %q: name and id must not contain path separators", p.Name)
		}
		if p.Version != "" {
			if _, err := semver.NewVersion(p.Version); err != nil {
				return fmt.Errorf("plugin %q: invalid version %q: %w", p.Name, p.Version, err)
			}
		}
		scope := PluginDirName(Plugin{Name: p.Name, ID: p.ID})
		if seen[scope] {
			return fmt.Errorf("plugin %q declared twice", scope)
		}
		seen[scope] = true
	}
	return nil
}

// RuntimeConfig turns the project config into a sync Config rooted at siteDir.
func (c *ProjectConfig) RuntimeConfig(siteDir string) (Config, error) {
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	policy, _ := ParseCollisionPolicy(c.Collision)

	cfg := Config{
		SiteDir:       siteDir,
		I18nDir:       c.I18nDir,
		Locales:       append([]string(nil), c.Locales...),
		DefaultLocale: c.DefaultLocale,
		ExtractedDir:  c.ExtractedDir,
		Options:       WriteOptions{Override: c.Override, MessagePrefix: c.MessagePrefix},
		Workers:       c.Workers,
		Collision:     policy,
	}
	if cfg.I18nDir == "" {
		cfg.I18nDir = DefaultI18nDir
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "en"
	}
	if len(cfg.Locales) == 0 {
		cfg.Locales = []string{cfg.DefaultLocale}
	}
	if cfg.ExtractedDir == "" {
		cfg.ExtractedDir = DefaultExtractedDir(siteDir)
	} else if !filepath.IsAbs(cfg.ExtractedDir) {
		cfg.ExtractedDir = filepath.Join(siteDir, cfg.ExtractedDir)
	}

	for _, p := range c.Plugins {
		plugin := Plugin{Name: p.Name, ID: p.ID, Version: p.Version}
		if p.Defaults != "" {
			path := p.Defaults
			if !filepath.IsAbs(path) {
				path = filepath.Join(siteDir, path)
			}
			plugin.DefaultMessages = FileDefaultMessages(path)
		}
		cfg.Plugins = append(cfg.Plugins, plugin)
	}
	return cfg, nil
}
