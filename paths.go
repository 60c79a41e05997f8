package transync

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// DefaultI18nDir is the directory under the site root holding one
	// subdirectory per locale.
	DefaultI18nDir = "i18n"
	// CodeTranslationsFile holds the site-wide code messages of a locale.
	CodeTranslationsFile = "code" + CatalogExt
	// DefaultPluginID is the instance id that does not appear in plugin paths.
	DefaultPluginID = "default"
)

// TranslationContext locates the catalogs of one locale.
type TranslationContext struct {
	SiteDir string
	Locale  string
	I18nDir string // defaults to DefaultI18nDir
}

// InvalidPathSpec is returned when a logical catalog path already carries
// the canonical extension.
type InvalidPathSpec struct {
	Path string
}

func (e *InvalidPathSpec) Error() string {
	return fmt.Sprintf("translation file path %q must not end with %q: the extension is added automatically", e.Path, CatalogExt)
}

// LocaleDir returns <site>/<i18n>/<locale>.
func LocaleDir(tc TranslationContext) string {
	dir := tc.I18nDir
	if dir == "" {
		dir = DefaultI18nDir
	}
	return filepath.Join(tc.SiteDir, dir, tc.Locale)
}

// CodeTranslationsPath returns the path of the code catalog of tc's locale.
func CodeTranslationsPath(tc TranslationContext) string {
	return filepath.Join(LocaleDir(tc), CodeTranslationsFile)
}

// PluginDirName is the plugin scope directory: the plugin name, suffixed
// with the instance id unless it is the default one.
func PluginDirName(p Plugin) string {
	if p.ID == "" || p.ID == DefaultPluginID {
		return p.Name
	}
	return p.Name + "-" + p.ID
}

// PluginDir returns the directory holding p's catalogs for tc's locale.
func PluginDir(tc TranslationContext, p Plugin) string {
	return filepath.Join(LocaleDir(tc), PluginDirName(p))
}

// PluginTranslationFilePath resolves a logical plugin catalog path.
func PluginTranslationFilePath(tc TranslationContext, p Plugin, logicalPath string) (string, error) {
	if strings.EqualFold(filepath.Ext(logicalPath), CatalogExt) {
		return "", &InvalidPathSpec{Path: logicalPath}
	}
	return filepath.Join(PluginDir(tc, p), filepath.FromSlash(logicalPath)) + CatalogExt, nil
}
