package transync

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CatalogCheck is the validation outcome of one catalog file.
type CatalogCheck struct {
	Path    string `json:"path"` // relative to the i18n directory
	Locale  string `json:"locale"`
	Entries int    `json:"entries"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// RunDoctor validates every catalog under <site>/<i18nDir>. A missing
// i18n directory yields no checks.
func RunDoctor(siteDir, i18nDir string) ([]CatalogCheck, error) {
	if i18nDir == "" {
		i18nDir = DefaultI18nDir
	}
	root := filepath.Join(siteDir, i18nDir)

	var checks []CatalogCheck
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), CatalogExt) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		check := CatalogCheck{
			Path:   filepath.ToSlash(rel),
			Locale: strings.SplitN(filepath.ToSlash(rel), "/", 2)[0],
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		c, err := DecodeCatalog(data)
		if err != nil {
			check.Error = err.Error()
		} else {
			check.OK = true
			check.Entries = len(c)
		}
		checks = append(checks, check)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(checks, func(i, j int) bool { return checks[i].Path < checks[j].Path })
	return checks, nil
}

// FormatDoctorJSON returns the checks as a JSON array string.
func FormatDoctorJSON(checks []CatalogCheck) (string, error) {
	if checks == nil {
		checks = []CatalogCheck{}
	}
	data, err := json.Marshal(checks)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
