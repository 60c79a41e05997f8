package transync

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the runtime configuration for a sync pass.
type Config struct {
	SiteDir       string
	I18nDir       string
	Locales       []string
	DefaultLocale string
	ExtractedDir  string // candidate catalogs produced by extraction
	Options       WriteOptions
	Workers       int // locales synced in parallel (0 = one per locale)
	Collision     CollisionPolicy
	Plugins       []Plugin
}

// Context returns the translation context of locale.
func (c Config) Context(locale string) TranslationContext {
	return TranslationContext{SiteDir: c.SiteDir, Locale: locale, I18nDir: c.I18nDir}
}

// Extraction is the set of candidate catalogs produced by the extraction step.
type Extraction struct {
	Code    Catalog                      // nil when no code catalog was extracted
	Plugins map[string][]TranslationFile // keyed by PluginDirName, sorted by Path
}

// ReadExtraction loads <extracted>/code.json and every
// <extracted>/<plugin scope>/**/*.json of the configured plugins.
// Extracted catalogs are validated like on-disk ones.
func (s *Syncer) ReadExtraction(ctx context.Context, cfg Config) (*Extraction, error) {
	code, err := s.ReadCatalogFile(ctx, filepath.Join(cfg.ExtractedDir, CodeTranslationsFile))
	if err != nil {
		return nil, err
	}
	ext := &Extraction{Code: code, Plugins: make(map[string][]TranslationFile)}

	for _, p := range cfg.Plugins {
		scope := PluginDirName(p)
		dir := filepath.Join(cfg.ExtractedDir, scope)
		files, err := s.readPluginExtraction(ctx, dir)
		if err != nil {
			return nil, err
		}
		if len(files) > 0 {
			ext.Plugins[scope] = files
		}
	}
	return ext, nil
}

func (s *Syncer) readPluginExtraction(ctx context.Context, dir string) ([]TranslationFile, error) {
	var files []TranslationFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), CatalogExt) {
			return nil
		}
		content, err := s.ReadCatalogFile(ctx, path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		logical := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
		files = append(files, TranslationFile{Path: logical, Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// SyncReport summarizes a sync pass.
type SyncReport struct {
	RunID   string
	Results []WriteResult // sorted by Path
}

// Written counts the catalogs persisted to disk.
func (r SyncReport) Written() int {
	n := 0
	for _, res := range r.Results {
		if res.Written {
			n++
		}
	}
	return n
}

// StaleKeys counts stale keys over all catalogs.
func (r SyncReport) StaleKeys() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.StaleKeys)
	}
	return n
}

// Sync reads the extraction, backfills code messages with plugin defaults
// and writes the code and plugin catalogs of every configured locale.
// Locales are processed concurrently; the files of one locale are written
// in sequence, so no path is ever written twice at the same time.
func (s *Syncer) Sync(ctx context.Context, cfg Config) (SyncReport, error) {
	runID := uuid.NewString()
	ctx = withRunID(ctx, runID)
	ctx, span := tracer.Start(ctx, "transync.sync",
		trace.WithAttributes(
			attribute.String("sync.run_id", runID),
			attribute.StringSlice("sync.locales", cfg.Locales),
		))
	defer span.End()

	report := SyncReport{RunID: runID}
	fail := func(err error) (SyncReport, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	ext, err := s.ReadExtraction(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	if ext.Code == nil && len(ext.Plugins) == 0 {
		s.logger.Warn("No extracted catalogs found in %s", relPath(cfg.ExtractedDir))
		return report, nil
	}
	if ext.Code != nil {
		defaults, err := s.PluginsDefaultCodeMessages(ctx, cfg.Plugins)
		if err != nil {
			return fail(err)
		}
		ext.Code = s.ApplyDefaultCodeTranslations(ext.Code, defaults)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = max(len(cfg.Locales), 1)
	}
	pool := pond.NewPool(workers, pond.WithContext(ctx))
	defer pool.StopAndWait()
	group := pool.NewGroup()

	var mu sync.Mutex
	for _, locale := range cfg.Locales {
		locale := locale // per-iteration copy (go < 1.22 loop semantics)
		group.SubmitErr(func() error {
			results, err := s.syncLocale(withLocale(ctx, locale), cfg, locale, ext)
			mu.Lock()
			report.Results = append(report.Results, results...)
			mu.Unlock()
			return err
		})
	}
	err = group.Wait()
	sort.Slice(report.Results, func(i, j int) bool { return report.Results[i].Path < report.Results[j].Path })
	if err != nil {
		return fail(err)
	}

	span.SetAttributes(attribute.Int("sync.written", report.Written()))
	s.logger.OK("Synced %d catalog(s) for %d locale(s)", report.Written(), len(cfg.Locales))
	return report, nil
}

func (s *Syncer) syncLocale(ctx context.Context, cfg Config, locale string, ext *Extraction) ([]WriteResult, error) {
	tc := cfg.Context(locale)
	var results []WriteResult

	if ext.Code != nil {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := s.WriteCodeTranslations(ctx, tc, ext.Code, cfg.Options)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	for _, p := range cfg.Plugins {
		for _, file := range ext.Plugins[PluginDirName(p)] {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			res, err := s.WritePluginTranslations(ctx, tc, p, file, cfg.Options)
			if err != nil {
				return results, err
			}
			results = append(results, res)
		}
	}
	return results, nil
}

// ExtractionExists reports whether the extracted directory is present.
func ExtractionExists(cfg Config) bool {
	info, err := os.Stat(cfg.ExtractedDir)
	return err == nil && info.IsDir()
}
