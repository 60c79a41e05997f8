package transync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// WriteResult describes one WriteCatalogFile call.
type WriteResult struct {
	Path      string   `json:"path"`
	Locale    string   `json:"locale,omitempty"`
	Written   bool     `json:"written"`              // false when the merged catalog was empty
	Count     int      `json:"count"`                // entries in the merged catalog
	Added     int      `json:"added"`                // keys that were not on disk before
	StaleKeys []string `json:"stale_keys,omitempty"` // on disk but absent from the incoming catalog, sorted
}

// WriteCatalogFile reads the catalog at path, warns about stale keys,
// merges incoming into it and writes the result. An empty merged catalog
// is never written. Read errors abort before anything is written; write
// errors are returned as is.
func (s *Syncer) WriteCatalogFile(ctx context.Context, path string, incoming Catalog, opts WriteOptions) (WriteResult, error) {
	ctx, span := tracer.Start(ctx, "catalog.write",
		trace.WithAttributes(
			attribute.String("catalog.path", path),
			attribute.Bool("catalog.override", opts.Override),
		))
	defer span.End()

	res := WriteResult{Path: path, Locale: localeFrom(ctx)}

	existing, err := s.ReadCatalogFile(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	res.StaleKeys = missingKeys(existing, incoming)
	if len(res.StaleKeys) > 0 {
		s.logger.Warn("Some translation keys look unknown in file %s. Maybe you should remove them? %s",
			path, strings.Join(res.StaleKeys, ", "))
	}

	merged := MergeCatalogs(existing, incoming, opts)
	res.Count = len(merged)
	res.Added = len(missingKeys(incoming, existing))
	span.SetAttributes(
		attribute.Int("catalog.entries", res.Count),
		attribute.Int("catalog.stale_keys", len(res.StaleKeys)),
	)

	if res.Count == 0 {
		recordWrite(ctx, res)
		return res, nil
	}

	s.logger.Info("Writing %d translations to %s", res.Count, relPath(path))
	data, err := EncodeCatalog(merged)
	if err != nil {
		span.RecordError(err)
		return res, err
	}
	if err := writeFile(path, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}
	res.Written = true
	recordWrite(ctx, res)
	s.record(ctx, res)
	return res, nil
}

// EncodeCatalog renders c with two-space indentation, keys in sorted
// order and a trailing newline. HTML characters are not escaped.
func EncodeCatalog(c Catalog) ([]byte, error) {
	if c == nil {
		c = Catalog{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Syncer) record(ctx context.Context, res WriteResult) {
	if s.history == nil {
		return
	}
	entry := HistoryEntry{
		RunID:     runIDFrom(ctx),
		Path:      res.Path,
		Locale:    res.Locale,
		Count:     res.Count,
		Added:     res.Added,
		StaleKeys: res.StaleKeys,
		At:        time.Now(),
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("history: %v", err)
	}
}
