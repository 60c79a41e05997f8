package transync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Syncer reads, merges and writes catalog files. It holds no per-file
// state: writes to different paths may run concurrently, writes to the
// same path must be serialized by the caller.
type Syncer struct {
	logger    *Logger
	history   *History
	collision CollisionPolicy
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger routes diagnostics to l instead of stderr.
func WithLogger(l *Logger) Option {
	return func(s *Syncer) { s.logger = l }
}

// WithHistory records every catalog write in h.
func WithHistory(h *History) Option {
	return func(s *Syncer) { s.history = h }
}

// WithCollisionPolicy sets how duplicate plugin default message keys are handled.
func WithCollisionPolicy(p CollisionPolicy) Option {
	return func(s *Syncer) { s.collision = p }
}

// NewSyncer returns a Syncer logging to stderr unless WithLogger is given.
func NewSyncer(opts ...Option) *Syncer {
	s := &Syncer{collision: CollisionLastWins}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = NewLogger(os.Stderr, false)
	}
	return s
}

// Logger returns the logger the Syncer reports through.
func (s *Syncer) Logger() *Logger { return s.logger }

// ReadCatalogFile loads and validates the catalog at path. A missing file
// yields (nil, nil). Parse and schema failures are logged and returned;
// a *SchemaViolation in the chain carries the file path.
func (s *Syncer) ReadCatalogFile(ctx context.Context, path string) (Catalog, error) {
	_, span := tracer.Start(ctx, "catalog.read",
		trace.WithAttributes(attribute.String("catalog.path", path)))
	defer span.End()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			span.SetAttributes(attribute.Bool("catalog.exists", false))
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Bool("catalog.exists", true))

	c, err := DecodeCatalog(data)
	if err != nil {
		var sv *SchemaViolation
		if errors.As(err, &sv) {
			sv.File = path
		} else {
			err = fmt.Errorf("%s: %w", path, err)
		}
		s.logger.Error("Invalid translation file: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("catalog.entries", len(c)))
	return c, nil
}

// WriteCodeTranslations merges content into the code catalog of tc's locale.
func (s *Syncer) WriteCodeTranslations(ctx context.Context, tc TranslationContext, content Catalog, opts WriteOptions) (WriteResult, error) {
	return s.WriteCatalogFile(ctx, CodeTranslationsPath(tc), content, opts)
}

// WritePluginTranslations merges file into the catalog p owns at file.Path
// for tc's locale.
func (s *Syncer) WritePluginTranslations(ctx context.Context, tc TranslationContext, p Plugin, file TranslationFile, opts WriteOptions) (WriteResult, error) {
	path, err := PluginTranslationFilePath(tc, p, file.Path)
	if err != nil {
		return WriteResult{}, err
	}
	return s.WriteCatalogFile(ctx, path, file.Content, opts)
}

// LocalizePluginTranslationFile layers the locale catalog of file over its
// default content. When no locale catalog exists, file is returned as is.
func (s *Syncer) LocalizePluginTranslationFile(ctx context.Context, tc TranslationContext, p Plugin, file TranslationFile) (TranslationFile, error) {
	path, err := PluginTranslationFilePath(tc, p, file.Path)
	if err != nil {
		return TranslationFile{}, err
	}
	localized, err := s.ReadCatalogFile(ctx, path)
	if err != nil {
		return TranslationFile{}, err
	}
	if localized == nil {
		return file, nil
	}
	return TranslationFile{Path: file.Path, Content: OverlayCatalog(file.Content, localized)}, nil
}

func relPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return rel
}
