package transync

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ShapeKind tags the variant held by a Shape.
type ShapeKind int

const (
	KindString ShapeKind = iota + 1
	KindObject           // fixed set of named fields, unknown fields rejected
	KindMap              // arbitrary string keys, every value matches Elem
)

// Shape describes the expected structure of a decoded JSON value.
type Shape struct {
	Kind   ShapeKind
	Fields map[string]Field // KindObject
	Elem   *Shape           // KindMap
}

// Field is a named member of a KindObject shape.
type Field struct {
	Shape    Shape
	Required bool
}

// CatalogShape is { [key]: { message: string, description?: string } }.
var CatalogShape = Shape{
	Kind: KindMap,
	Elem: &Shape{
		Kind: KindObject,
		Fields: map[string]Field{
			"message":     {Shape: Shape{Kind: KindString}, Required: true},
			"description": {Shape: Shape{Kind: KindString}},
		},
	},
}

// SchemaViolation reports a decoded value that does not match a Shape.
// Path is dot-separated from the document root; File is set by the reader.
type SchemaViolation struct {
	File   string
	Path   string
	Reason string
}

func (e *SchemaViolation) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "(root)"
	}
	if e.File != "" {
		return fmt.Sprintf("invalid catalog %s: %s %s", e.File, loc, e.Reason)
	}
	return fmt.Sprintf("invalid catalog: %s %s", loc, e.Reason)
}

// Validate checks v against s and returns a *SchemaViolation naming the
// first offending path. Keys are visited in sorted order so the reported
// violation is deterministic.
func Validate(v any, s Shape) error {
	return validate(v, s, "")
}

func validate(v any, s Shape, path string) error {
	switch s.Kind {
	case KindString:
		if _, ok := v.(string); !ok {
			return violation(path, "must be a string, got %s", typeName(v))
		}
		return nil

	case KindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return violation(path, "must be an object, got %s", typeName(v))
		}
		for _, name := range sortedFieldNames(s.Fields) {
			if _, present := obj[name]; !present && s.Fields[name].Required {
				return violation(joinPath(path, name), "is required")
			}
		}
		for _, k := range sortedKeys(obj) {
			f, known := s.Fields[k]
			if !known {
				return violation(joinPath(path, k), "is not allowed")
			}
			if err := validate(obj[k], f.Shape, joinPath(path, k)); err != nil {
				return err
			}
		}
		return nil

	case KindMap:
		obj, ok := v.(map[string]any)
		if !ok {
			return violation(path, "must be an object, got %s", typeName(v))
		}
		if s.Elem == nil {
			return nil
		}
		for _, k := range sortedKeys(obj) {
			if err := validate(obj[k], *s.Elem, joinPath(path, k)); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown shape kind %d", s.Kind)
}

// ValidateCatalog checks v against CatalogShape and converts it.
func ValidateCatalog(v any) (Catalog, error) {
	if err := Validate(v, CatalogShape); err != nil {
		return nil, err
	}
	obj := v.(map[string]any)
	out := make(Catalog, len(obj))
	for k, raw := range obj {
		entry := raw.(map[string]any)
		m := Message{Message: entry["message"].(string)}
		if d, ok := entry["description"].(string); ok {
			m.Description = d
		}
		out[k] = m
	}
	return out, nil
}

// DecodeCatalog parses and validates catalog JSON. Syntax errors are
// returned as-is; structural problems as *SchemaViolation.
func DecodeCatalog(data []byte) (Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, errors.New("parse catalog: unexpected data after top-level value")
	}
	return ValidateCatalog(v)
}

func violation(path, format string, args ...any) *SchemaViolation {
	return &SchemaViolation{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func joinPath(path, key string) string {
	if key == "" || strings.ContainsAny(key, ".\"[] ") {
		key = strconv.Quote(key)
	}
	if path == "" {
		return key
	}
	return path + "." + key
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFieldNames(m map[string]Field) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
