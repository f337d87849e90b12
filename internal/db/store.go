package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Build statuses.
const (
	BuildRunning   = "running"
	BuildCompleted = "completed"
	BuildFailed    = "failed"
)

// Build is one run of the site generator.
type Build struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Status     string    `json:"status"`
	Pages      int       `json:"pages"`
	Canvases   int       `json:"canvases"`
	Skipped    int       `json:"skipped"`
	Unchanged  int       `json:"unchanged"`
}

// Page is the recorded state of one generated page.
type Page struct {
	Slug       string    `json:"slug"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	SourcePath string    `json:"source_path"`
	SourceHash string    `json:"source_hash"`
	DepsHash   string    `json:"deps_hash"`
	OutputPath string    `json:"output_path"`
	Nodes      int       `json:"nodes"`
	Edges      int       `json:"edges"`
	BuildID    string    `json:"build_id"`
	BuiltAt    time.Time `json:"built_at"`
}

// BeginBuild records the start of a build and returns its id.
func (d *DB) BeginBuild(ctx context.Context) (string, error) {
	id := uuid.New().String()
	if _, err := d.ExecContext(ctx, `INSERT INTO builds (id) VALUES (?)`, id); err != nil {
		return "", fmt.Errorf("inserting build: %w", err)
	}
	return id, nil
}

// FinishBuild stores the outcome of a build.
func (d *DB) FinishBuild(ctx context.Context, b Build) error {
	if b.Status == "" {
		b.Status = BuildCompleted
	}
	res, err := d.ExecContext(ctx, `
		UPDATE builds
		SET finished_at = datetime('now'), status = ?, pages = ?, canvases = ?, skipped = ?, unchanged = ?
		WHERE id = ?`,
		b.Status, b.Pages, b.Canvases, b.Skipped, b.Unchanged, b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating build: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("build %s: %w", b.ID, ErrNotFound)
	}
	return nil
}

// GetBuild returns one build.
func (d *DB) GetBuild(ctx context.Context, id string) (*Build, error) {
	row := d.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, status, pages, canvases, skipped, unchanged
		FROM builds WHERE id = ?`, id)
	return scanBuild(row)
}

// LatestBuild returns the most recently started build.
func (d *DB) LatestBuild(ctx context.Context) (*Build, error) {
	row := d.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, status, pages, canvases, skipped, unchanged
		FROM builds ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	return scanBuild(row)
}

// UpsertPage inserts or replaces the state of a page.
func (d *DB) UpsertPage(ctx context.Context, p Page) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO pages (
			slug, kind, title, source_path, source_hash, deps_hash,
			output_path, node_count, edge_count, build_id, built_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(slug) DO UPDATE SET
			kind = excluded.kind,
			title = excluded.title,
			source_path = excluded.source_path,
			source_hash = excluded.source_hash,
			deps_hash = excluded.deps_hash,
			output_path = excluded.output_path,
			node_count = excluded.node_count,
			edge_count = excluded.edge_count,
			build_id = excluded.build_id,
			built_at = excluded.built_at`,
		p.Slug, p.Kind, p.Title, p.SourcePath, p.SourceHash, p.DepsHash,
		p.OutputPath, p.Nodes, p.Edges, p.BuildID,
	)
	if err != nil {
		return fmt.Errorf("upserting page %s: %w", p.Slug, err)
	}
	return nil
}

// GetPage returns the recorded state of slug, or ErrNotFound.
func (d *DB) GetPage(ctx context.Context, slug string) (*Page, error) {
	row := d.QueryRowContext(ctx, `
		SELECT slug, kind, title, source_path, source_hash, deps_hash,
		       output_path, node_count, edge_count, build_id, built_at
		FROM pages WHERE slug = ?`, slug)
	return scanPage(row)
}

// ListPages returns the recorded pages ordered by slug. A non-empty kind
// restricts the result to that kind.
func (d *DB) ListPages(ctx context.Context, kind string) ([]Page, error) {
	query := `
		SELECT slug, kind, title, source_path, source_hash, deps_hash,
		       output_path, node_count, edge_count, build_id, built_at
		FROM pages`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY slug`

	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// PrunePages deletes every page whose slug is not in keep and returns how
// many were removed.
func (d *DB) PrunePages(ctx context.Context, keep []string) (int, error) {
	query := `DELETE FROM pages`
	args := make([]any, len(keep))
	if len(keep) > 0 {
		query += ` WHERE slug NOT IN (?` + strings.Repeat(",?", len(keep)-1) + `)`
		for i, slug := range keep {
			args[i] = slug
		}
	}
	res, err := d.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("pruning pages: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(sc scanner) (*Build, error) {
	var (
		b        Build
		started  string
		finished sql.NullString
	)
	err := sc.Scan(&b.ID, &started, &finished, &b.Status, &b.Pages, &b.Canvases, &b.Skipped, &b.Unchanged)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.StartedAt = parseTime(started)
	if finished.Valid {
		b.FinishedAt = parseTime(finished.String)
	}
	return &b, nil
}

func scanPage(sc scanner) (*Page, error) {
	var (
		p       Page
		builtAt string
	)
	err := sc.Scan(
		&p.Slug, &p.Kind, &p.Title, &p.SourcePath, &p.SourceHash, &p.DepsHash,
		&p.OutputPath, &p.Nodes, &p.Edges, &p.BuildID, &builtAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.BuiltAt = parseTime(builtAt)
	return &p, nil
}

// parseTime accepts both SQLite's datetime() text and the RFC 3339 form
// the driver produces for DATETIME columns.
func parseTime(ts string) time.Time {
	if t, err := time.Parse(time.DateTime, ts); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t
	}
	return time.Time{}
}
