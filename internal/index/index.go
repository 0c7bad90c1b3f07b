// Package index maintains a rebuildable SQLite FTS5 index over the text of
// active and archived leads. The JSON/YAML documents stay the source of truth;
// the index can be deleted at any time and rebuilt from them.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the pure-Go "sqlite" driver with database/sql

	"github.com/go-ports/leads/internal/models"
	"github.com/go-ports/leads/internal/store"
)

// FileName is the index file created inside the leads home.
const FileName = "index.db"

// Kinds of indexed fragments.
const (
	KindPosition  = "position"
	KindNote      = "note"
	KindStatus    = "status"
	KindRedFlag   = "red_flag"
	KindInterview = "interview"
	KindTodo      = "todo"
	KindWait      = "wait"
)

// Fragment is one searchable piece of text belonging to a lead.
type Fragment struct {
	Company  models.CompanyName
	Index    int
	Archived bool
	Position string
	Kind     string
	Label    string // note category, interview name, or timestamp
	Text     string
}

// Hit is a search match.
type Hit struct {
	Fragment
	Snippet string
	Score   float64
}

// Index wraps the *sql.DB holding the FTS5 table.
type Index struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the index database at path and initialises the schema.
func Open(ctx context.Context, path string) (*Index, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("index.Open: %w", err)
	}
	sqldb.SetMaxOpenConns(1)

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("index.Open: %w", err)
	}
	x := &Index{db: sqldb, path: path}
	if err := x.createSchema(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("index.Open createSchema: %w", err)
	}
	return x, nil
}

// Close closes the underlying database connection.
func (x *Index) Close() error {
	if x == nil || x.db == nil {
		return nil
	}
	return x.db.Close()
}

// Path returns the file the index was opened from.
func (x *Index) Path() string { return x.path }

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func (x *Index) createSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS fragments USING fts5(
			company UNINDEXED, position UNINDEXED, kind UNINDEXED, label, text,
			idx UNINDEXED, archived UNINDEXED,
			tokenize='porter unicode61'
		)`,
	}
	for _, s := range stmts {
		if _, err := x.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("createSchema exec: %w\nSQL: %s", err, s)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Rebuild
// ---------------------------------------------------------------------------

// Rebuild replaces the whole index with the fragments of both stores and
// returns the number of fragments written. archived may be nil.
func (x *Index) Rebuild(ctx context.Context, active, archived *store.Store) (int, error) {
	var frags []Fragment
	frags = append(frags, Collect(active, false)...)
	if archived != nil {
		frags = append(frags, Collect(archived, true)...)
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("Rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fragments`); err != nil {
		return 0, fmt.Errorf("Rebuild clear: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO fragments (company, position, kind, label, text, idx, archived)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("Rebuild prepare: %w", err)
	}
	defer stmt.Close()

	for _, f := range frags {
		archivedFlag := 0
		if f.Archived {
			archivedFlag = 1
		}
		if _, err := stmt.ExecContext(ctx,
			f.Company.String(), f.Position, f.Kind, f.Label, f.Text, f.Index, archivedFlag,
		); err != nil {
			return 0, fmt.Errorf("Rebuild insert: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('rebuilt_at', ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return 0, fmt.Errorf("Rebuild meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("Rebuild commit: %w", err)
	}
	return len(frags), nil
}

// RebuiltAt reports when Rebuild last completed. ok is false for an index
// that was never built.
func (x *Index) RebuiltAt(ctx context.Context) (at time.Time, ok bool, err error) {
	var val string
	err = x.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'rebuilt_at'`).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	at, err = time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}

// Collect flattens every lead of s into fragments.
func Collect(s *store.Store, archived bool) []Fragment {
	var out []Fragment
	for _, company := range s.Companies() {
		for i, l := range s.Positions(company) {
			base := Fragment{Company: company, Index: i, Archived: archived, Position: l.Position}
			add := func(kind, label, text string) {
				f := base
				f.Kind, f.Label, f.Text = kind, label, text
				out = append(out, f)
			}

			add(KindPosition, "", strings.Join([]string{company.String(), l.Position, l.Source}, " "))
			for cat, notes := range l.Notes {
				for _, n := range notes {
					add(KindNote, cat, n)
				}
			}
			for _, u := range l.StatusUpdates.Entries() {
				add(KindStatus, u.At.Format(models.TimestampLayout), u.Message)
			}
			for _, rf := range l.RedFlags {
				add(KindRedFlag, "", rf)
			}
			for _, e := range l.Interviews {
				for _, n := range e.Interview.PreNotes {
					add(KindInterview, e.Name.String(), n)
				}
				for _, n := range e.Interview.PostNotes {
					add(KindInterview, e.Name.String(), n)
				}
			}
			for _, t := range l.Todo {
				add(KindTodo, t.Deadline.UTC().Format(models.TimestampLayout), t.Action)
			}
			for _, w := range l.Wait {
				add(KindWait, "", w.Action)
			}
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

// Search performs a BM25 full-text search and returns at most limit hits,
// best first. An empty query returns no hits.
func (x *Index) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	// Build "term1"* OR "term2"* FTS5 query.
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"*`
	}
	ftsQuery := strings.Join(parts, " OR ")

	rows, err := x.db.QueryContext(ctx, `
		SELECT company, position, kind, label, text, idx, archived,
		       snippet(fragments, 4, '[', ']', '...', 12), -rank
		FROM fragments
		WHERE fragments MATCH ?
		ORDER BY rank
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			h        Hit
			company  string
			archived int
		)
		if err := rows.Scan(&company, &h.Position, &h.Kind, &h.Label, &h.Text,
			&h.Index, &archived, &h.Snippet, &h.Score); err != nil {
			return nil, fmt.Errorf("Search scan: %w", err)
		}
		h.Company = models.NewCompanyName(company)
		h.Archived = archived != 0
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
