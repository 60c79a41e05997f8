package transync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteCatalogFile_CreatesFile(t *testing.T) {
	// given
	s, _ := newTestSyncer(t)
	path := filepath.Join(t.TempDir(), "i18n", "fr", "code.json")

	// when
	res, err := s.WriteCatalogFile(context.Background(), path, Catalog{"greeting": {Message: "Hi"}}, WriteOptions{})

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Written || res.Count != 1 || res.Added != 1 {
		t.Errorf("result = %+v, want written with 1 entry, 1 added", res)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"greeting\": {\n    \"message\": \"Hi\"\n  }\n}\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestWriteCatalogFile_KeepsExistingTranslations(t *testing.T) {
	// given
	s, _ := newTestSyncer(t)
	path := filepath.Join(t.TempDir(), "code.json")
	writeTestFile(t, path, `{"greeting": {"message": "Bonjour"}}`)
	incoming := Catalog{"greeting": {Message: "Hi"}, "farewell": {Message: "Bye"}}

	// when
	res, err := s.WriteCatalogFile(context.Background(), path, incoming, WriteOptions{})

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Catalog{"greeting": {Message: "Bonjour"}, "farewell": {Message: "Bye"}}
	if diff := cmp.Diff(want, readTestCatalog(t, path)); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
	if res.Added != 1 {
		t.Errorf("Added = %d, want 1", res.Added)
	}
}

func TestWriteCatalogFile_OverrideWithPrefix(t *testing.T) {
	// given
	s, _ := newTestSyncer(t)
	path := filepath.Join(t.TempDir(), "code.json")
	writeTestFile(t, path, `{"greeting": {"message": "Bonjour"}}`)
	incoming := Catalog{"greeting": {Message: "Hi"}, "farewell": {Message: "Bye"}}

	// when
	_, err := s.WriteCatalogFile(context.Background(), path, incoming, WriteOptions{Override: true, MessagePrefix: "[NEW] "})

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Catalog{"greeting": {Message: "[NEW] Hi"}, "farewell": {Message: "[NEW] Bye"}}
	if diff := cmp.Diff(want, readTestCatalog(t, path)); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCatalogFile_WarnsAboutStaleKeys(t *testing.T) {
	// given
	s, logs := newTestSyncer(t)
	path := filepath.Join(t.TempDir(), "code.json")
	writeTestFile(t, path, `{"obsolete": {"message": "Vieux"}, "greeting": {"message": "Bonjour"}}`)

	// when
	res, err := s.WriteCatalogFile(context.Background(), path, Catalog{"greeting": {Message: "Hi"}}, WriteOptions{})

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"obsolete"}, res.StaleKeys); diff != "" {
		t.Errorf("StaleKeys mismatch (-want +got):\n%s", diff)
	}
	out := logs.String()
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "Maybe you should remove them? obsolete") {
		t.Errorf("log = %q, want a stale key warning naming 'obsolete'", out)
	}
	if !readTestCatalog(t, path).Has("obsolete") {
		t.Error("stale key was removed from the catalog")
	}
}

func TestWriteCatalogFile_EmptyCatalogNotCreated(t *testing.T) {
	// given
	s, _ := newTestSyncer(t)
	path := filepath.Join(t.TempDir(), "fr", "code.json")

	// when
	res, err := s.WriteCatalogFile(context.Background(), path, Catalog{}, WriteOptions{})

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Written {
		t.Error("Written = true, want false for an empty catalog")
	}
	if _, err := os.Stat(filepath.Dir(path)); !os.IsNotExist(err) {
		t.Errorf("locale dir should not be created, stat err = %v", err)
	}
}

func TestWriteCatalogFile_CorruptFileAbortsWithoutWriting(t *testing.T) {
	// given
	s, logs := newTestSyncer(t)
	path := filepath.Join(t.TempDir(), "code.json")
	corrupt := `{"greeting": {"msg": "Bonjour"}}`
	writeTestFile(t, path, corrupt)

	// when
	_, err := s.WriteCatalogFile(context.Background(), path, Catalog{"greeting": {Message: "Hi"}}, WriteOptions{})

	// then
	var sv *SchemaViolation
	if !errors.As(err, &sv) {
		t.Fatalf("err = %v, want *SchemaViolation", err)
	}
	if sv.File != path {
		t.Errorf("File = %q, want %q", sv.File, path)
	}
	data, _ := os.ReadFile(path)
	if string(data) != corrupt {
		t.Errorf("corrupt file was rewritten: %s", data)
	}
	if !strings.Contains(logs.String(), "Invalid translation file") {
		t.Errorf("log = %q, want 'Invalid translation file'", logs.String())
	}
}

func TestWriteCatalogFile_UnchangedRewriteIsByteIdentical(t *testing.T) {
	// given
	s, _ := newTestSyncer(t)
	path := filepath.Join(t.TempDir(), "code.json")
	incoming := Catalog{"b": {Message: "B", Description: "<b>"}, "a": {Message: "A & a"}}
	if _, err := s.WriteCatalogFile(context.Background(), path, incoming, WriteOptions{}); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(path)

	// when
	if _, err := s.WriteCatalogFile(context.Background(), path, incoming, WriteOptions{}); err != nil {
		t.Fatal(err)
	}

	// then
	second, _ := os.ReadFile(path)
	if string(first) != string(second) {
		t.Errorf("rewrite changed the file:\n%s\nvs\n%s", first, second)
	}
	if !strings.Contains(string(first), `"<b>"`) || !strings.Contains(string(first), `"A & a"`) {
		t.Errorf("HTML characters were escaped: %s", first)
	}
	if strings.Index(string(first), `"a"`) > strings.Index(string(first), `"b"`) {
		t.Errorf("keys not sorted: %s", first)
	}
}

func TestEncodeCatalog_Nil(t *testing.T) {
	data, err := EncodeCatalog(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "{}\n" {
		t.Errorf("EncodeCatalog(nil) = %q, want %q", data, "{}\n")
	}
}
