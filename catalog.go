package transync

import "sort"

// CatalogExt is the canonical extension of every catalog file on disk.
const CatalogExt = ".json"

// Message is a single translatable string. Description is documentation
// for translators and never takes part in merge decisions.
type Message struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// Catalog maps opaque message keys to their entries.
// A nil Catalog returned by the reader means the file is absent, which is
// not the same thing as an empty catalog.
type Catalog map[string]Message

// Keys returns the catalog keys in sorted order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy. Message is a value type so the copy is
// independent of the receiver.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for k, m := range c {
		out[k] = m
	}
	return out
}

// Has reports whether key is defined, including entries with an empty message.
func (c Catalog) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// missingKeys returns the keys of a that are not in b, sorted.
func missingKeys(a, b Catalog) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// TranslationFile is a catalog owned by a plugin. Path is a logical,
// extension-less identifier resolved by PluginTranslationFilePath.
type TranslationFile struct {
	Path    string
	Content Catalog
}

// WriteOptions controls how incoming messages are reconciled with the
// ones already on disk.
type WriteOptions struct {
	// Override replaces existing messages with incoming ones.
	Override bool
	// MessagePrefix is prepended to every incoming message.
	MessagePrefix string
}
