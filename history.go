package transync

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryEntry is one catalog write recorded in the history ledger.
type HistoryEntry struct {
	RunID     string    `json:"run_id"`
	Path      string    `json:"path"`
	Locale    string    `json:"locale,omitempty"`
	Count     int       `json:"count"`
	Added     int       `json:"added"`
	StaleKeys []string  `json:"stale_keys,omitempty"`
	At        time.Time `json:"at"`
}

// History is an append-only sqlite ledger of catalog writes kept under
// .transync/.run/ so operators can see what each sync pass changed.
type History struct {
	db *sql.DB
}

const historySchema = `
CREATE TABLE IF NOT EXISTS writes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	path       TEXT NOT NULL,
	locale     TEXT NOT NULL DEFAULT '',
	count      INTEGER NOT NULL,
	added      INTEGER NOT NULL,
	stale_keys TEXT NOT NULL DEFAULT '[]',
	at         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS writes_run_id ON writes(run_id);
`

// HistoryPath returns the ledger location for a site.
func HistoryPath(siteDir string) string {
	return filepath.Join(RunDir(siteDir), "history.db")
}

// OpenHistory opens (creating if needed) the ledger at path.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// Sync pass workers share the handle; sqlite serializes writers anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history: %w", err)
	}
	return &History{db: db}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

// Record appends e to the ledger.
func (h *History) Record(ctx context.Context, e HistoryEntry) error {
	stale := e.StaleKeys
	if stale == nil {
		stale = []string{}
	}
	staleJSON, err := json.Marshal(stale)
	if err != nil {
		return err
	}
	_, err = h.db.ExecContext(ctx,
		`INSERT INTO writes (run_id, path, locale, count, added, stale_keys, at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Path, e.Locale, e.Count, e.Added, string(staleJSON), e.At.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record write of %s: %w", e.Path, err)
	}
	return nil
}

// Recent returns at most limit entries, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT run_id, path, locale, count, added, stale_keys, at FROM writes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			e         HistoryEntry
			staleJSON string
			at        string
		)
		if err := rows.Scan(&e.RunID, &e.Path, &e.Locale, &e.Count, &e.Added, &staleJSON, &at); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(staleJSON), &e.StaleKeys); err != nil {
			return nil, fmt.Errorf("decode stale keys of %s: %w", e.Path, err)
		}
		if len(e.StaleKeys) == 0 {
			e.StaleKeys = nil
		}
		e.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type ctxKey int

const (
	runIDKey ctxKey = iota
	localeKey
)

func withRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

func runIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

func withLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}

func localeFrom(ctx context.Context) string {
	l, _ := ctx.Value(localeKey).(string)
	return l
}
