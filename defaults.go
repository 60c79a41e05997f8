package transync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// DefaultMessageProvider returns the built-in messages a plugin ships for
// its own code message ids.
type DefaultMessageProvider func(ctx context.Context) (map[string]string, error)

// Plugin is an independently versioned content source owning catalogs.
type Plugin struct {
	Name            string
	ID              string // instance id; empty means DefaultPluginID
	Version         string
	DefaultMessages DefaultMessageProvider // optional
}

// CollisionPolicy decides what happens when two plugins ship a default
// message for the same id.
type CollisionPolicy int

const (
	// CollisionLastWins keeps the value of the later plugin and warns when
	// the two values differ.
	CollisionLastWins CollisionPolicy = iota
	// CollisionFirstWins keeps the value of the earlier plugin and warns.
	CollisionFirstWins
	// CollisionError fails with *DefaultMessageCollision.
	CollisionError
)

func (p CollisionPolicy) String() string {
	switch p {
	case CollisionFirstWins:
		return "first-wins"
	case CollisionError:
		return "error"
	default:
		return "last-wins"
	}
}

// ParseCollisionPolicy accepts the names produced by String.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last-wins":
		return CollisionLastWins, nil
	case "first-wins":
		return CollisionFirstWins, nil
	case "error":
		return CollisionError, nil
	}
	return 0, fmt.Errorf("unknown collision policy %q (want last-wins, first-wins or error)", s)
}

// DefaultMessageCollision reports two plugins defining the same default
// message id with different values.
type DefaultMessageCollision struct {
	Key    string
	First  string // plugin scope that defined the key first
	Second string
}

func (e *DefaultMessageCollision) Error() string {
	return fmt.Sprintf("default message %q is defined by both %s and %s", e.Key, e.First, e.Second)
}

// PluginsDefaultCodeMessages calls every plugin's provider concurrently
// and folds the results in plugin order. A plugin without a provider
// contributes nothing.
func (s *Syncer) PluginsDefaultCodeMessages(ctx context.Context, plugins []Plugin) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "defaults.aggregate")
	defer span.End()

	results := make([]map[string]string, len(plugins))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range plugins {
		i, p := i, p // per-iteration copies (go < 1.22 loop semantics)
		if p.DefaultMessages == nil {
			continue
		}
		g.Go(func() error {
			m, err := p.DefaultMessages(gctx)
			if err != nil {
				return fmt.Errorf("default messages of plugin %s: %w", PluginDirName(p), err)
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	merged := make(map[string]string)
	owner := make(map[string]string)
	for i, m := range results {
		scope := PluginDirName(plugins[i])
		for _, key := range sortedStringKeys(m) {
			val := m[key]
			prev, seen := merged[key]
			if seen && prev != val {
				switch s.collision {
				case CollisionError:
					err := &DefaultMessageCollision{Key: key, First: owner[key], Second: scope}
					span.RecordError(err)
					return nil, err
				case CollisionFirstWins:
					s.logger.Warn("Default message %q of plugin %s ignored: already defined by %s", key, scope, owner[key])
					continue
				default:
					s.logger.Warn("Default message %q of plugin %s overrides the one defined by %s", key, scope, owner[key])
				}
			}
			if seen && s.collision == CollisionFirstWins {
				continue
			}
			merged[key] = val
			owner[key] = scope
		}
	}
	span.SetAttributes(attribute.Int("defaults.count", len(merged)))
	return merged, nil
}

// ApplyDefaultCodeTranslations fills the message of every extracted entry
// that has a default. Defaults without an extracted key are reported as a
// warning; they usually mean a message id was renamed or removed upstream.
func (s *Syncer) ApplyDefaultCodeTranslations(extracted Catalog, defaults map[string]string) Catalog {
	var unused []string
	for key := range defaults {
		if !extracted.Has(key) {
			unused = append(unused, key)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		s.logger.Warn("Unused default message codes found: %s", strings.Join(unused, ", "))
	}

	out := make(Catalog, len(extracted))
	for key, m := range extracted {
		if d, ok := defaults[key]; ok {
			m.Message = d
		}
		out[key] = m
	}
	return out
}

// FileDefaultMessages returns a provider reading a flat JSON object of
// message id to default message from path. A missing file yields no defaults.
func FileDefaultMessages(path string) DefaultMessageProvider {
	return func(ctx context.Context) (map[string]string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return map[string]string{}, nil
			}
			return nil, err
		}
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return m, nil
	}
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
