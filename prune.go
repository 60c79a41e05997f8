package transync

import (
	"context"
	"fmt"
	"os"
	"sort"
)

// PrunedFile lists the stale keys of one on-disk catalog.
type PrunedFile struct {
	Path      string   `json:"path"`
	Locale    string   `json:"locale"`
	StaleKeys []string `json:"stale_keys"`
	Removed   bool     `json:"removed,omitempty"` // file deleted because nothing was left
}

// PruneResult holds the outcome of a prune.
type PruneResult struct {
	Files     []PrunedFile
	Rewritten int // files actually rewritten or removed (0 in dry-run)
}

// StaleKeys counts stale keys over all files.
func (r PruneResult) StaleKeys() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.StaleKeys)
	}
	return n
}

// Prune finds on-disk keys that the current extraction no longer produces.
// Syncing never deletes keys; pruning is the explicit cleanup step. When
// execute is false it only lists them. When execute is true it rewrites
// each catalog without them, removing files left empty. Catalogs without
// an extracted counterpart are not touched.
func (s *Syncer) Prune(ctx context.Context, cfg Config, execute bool) (PruneResult, error) {
	var result PruneResult
	ext, err := s.ReadExtraction(ctx, cfg)
	if err != nil {
		return result, err
	}

	type target struct {
		path     string
		locale   string
		incoming Catalog
	}
	var targets []target
	for _, locale := range cfg.Locales {
		tc := cfg.Context(locale)
		if ext.Code != nil {
			targets = append(targets, target{CodeTranslationsPath(tc), locale, ext.Code})
		}
		for _, p := range cfg.Plugins {
			for _, file := range ext.Plugins[PluginDirName(p)] {
				path, err := PluginTranslationFilePath(tc, p, file.Path)
				if err != nil {
					return result, err
				}
				targets = append(targets, target{path, locale, file.Content})
			}
		}
	}

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		existing, err := s.ReadCatalogFile(ctx, t.path)
		if err != nil {
			return result, err
		}
		stale := missingKeys(existing, t.incoming)
		if len(stale) == 0 {
			continue
		}
		pf := PrunedFile{Path: t.path, Locale: t.locale, StaleKeys: stale}
		if execute {
			kept := existing.Clone()
			for _, k := range stale {
				delete(kept, k)
			}
			if len(kept) == 0 {
				if err := os.Remove(t.path); err != nil {
					return result, err
				}
				pf.Removed = true
				s.logger.Info("Removed %s: every key was stale", relPath(t.path))
			} else {
				data, err := EncodeCatalog(kept)
				if err != nil {
					return result, err
				}
				if err := writeFile(t.path, data); err != nil {
					return result, fmt.Errorf("prune %s: %w", t.path, err)
				}
				s.logger.Info("Pruned %d key(s) from %s", len(stale), relPath(t.path))
			}
			result.Rewritten++
		}
		result.Files = append(result.Files, pf)
	}
	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Path < result.Files[j].Path })
	return result, nil
}
