package transync

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writers of a sync pass.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestSyncer returns a Syncer whose log output is captured.
func newTestSyncer(t *testing.T, opts ...Option) (*Syncer, *syncBuffer) {
	t.Helper()
	buf := new(syncBuffer)
	opts = append([]Option{WithLogger(NewLogger(buf, true))}, opts...)
	return NewSyncer(opts...), buf
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readTestCatalog(t *testing.T, path string) Catalog {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	c, err := DecodeCatalog(data)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return c
}

// newTestConfig returns a sync Config rooted in a fresh temp site.
func newTestConfig(t *testing.T, locales ...string) Config {
	t.Helper()
	dir := t.TempDir()
	if len(locales) == 0 {
		locales = []string{"en"}
	}
	return Config{
		SiteDir:       dir,
		I18nDir:       DefaultI18nDir,
		Locales:       locales,
		DefaultLocale: locales[0],
		ExtractedDir:  DefaultExtractedDir(dir),
	}
}
