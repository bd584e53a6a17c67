// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/calcdeck/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the calculator tape and tool runs.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tape (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			variant TEXT NOT NULL,
			expression TEXT NOT NULL,
			result TEXT NOT NULL,
			chained INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tool_runs (
			id INTEGER PRIMARY KEY,
			tool TEXT NOT NULL,
			inputs TEXT NOT NULL,
			outputs TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tape_created_at ON tape(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_tape_variant ON tape(variant);`,
		`CREATE INDEX IF NOT EXISTS idx_tool_runs_tool ON tool_runs(tool);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertTape stores evaluations in a single transaction.
func (s *Store) InsertTape(ctx context.Context, entries ...model.TapeEntry) (err error) {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tape (session_id, variant, expression, result, chained, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, e := range entries {
		if _, err = stmt.ExecContext(ctx, e.SessionID, e.Variant, e.Expression, e.Result, e.Chained, timestamp(e.CreatedAt)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListTape returns tape entries filtered by cfg, oldest first. Last keeps
// only the most recent entries.
func (s *Store) ListTape(ctx context.Context, cfg model.HistoryConfig) ([]model.TapeEntry, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Variant != "" {
		clauses = append(clauses, "variant = ?")
		args = append(args, cfg.Variant)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, timestamp(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, session_id, variant, expression, result, chained, created_at
		FROM tape
		WHERE %s
		ORDER BY id DESC`, strings.Join(clauses, " AND "))
	if cfg.Last > 0 {
		query += " LIMIT ?"
		args = append(args, cfg.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.TapeEntry
	for rows.Next() {
		var e model.TapeEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Variant, &e.Expression, &e.Result, &e.Chained, &createdAt); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverse(entries)
	return entries, nil
}

// InsertToolRun stores a tool invocation and returns its id.
func (s *Store) InsertToolRun(ctx context.Context, run model.ToolRun) (int64, error) {
	inputs, err := json.Marshal(run.Inputs)
	if err != nil {
		return 0, fmt.Errorf("failed to encode tool inputs: %w", err)
	}
	outputs, err := json.Marshal(run.Outputs)
	if err != nil {
		return 0, fmt.Errorf("failed to encode tool outputs: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tool_runs (tool, inputs, outputs, created_at) VALUES (?, ?, ?, ?)`,
		run.Tool, string(inputs), string(outputs), timestamp(run.CreatedAt))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListToolRuns returns tool runs filtered by cfg, oldest first.
func (s *Store) ListToolRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.ToolRun, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Tool != "" {
		clauses = append(clauses, "tool = ?")
		args = append(args, cfg.Tool)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, timestamp(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, tool, inputs, outputs, created_at
		FROM tool_runs
		WHERE %s
		ORDER BY id DESC`, strings.Join(clauses, " AND "))
	if cfg.Last > 0 {
		query += " LIMIT ?"
		args = append(args, cfg.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.ToolRun
	for rows.Next() {
		var run model.ToolRun
		var inputs, outputs, createdAt string
		if err := rows.Scan(&run.ID, &run.Tool, &inputs, &outputs, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(inputs), &run.Inputs); err != nil {
			return nil, fmt.Errorf("failed to decode tool inputs: %w", err)
		}
		if err := json.Unmarshal([]byte(outputs), &run.Outputs); err != nil {
			return nil, fmt.Errorf("failed to decode tool outputs: %w", err)
		}
		if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverse(runs)
	return runs, nil
}

// VariantCounts aggregates tape entries and sessions per variant.
func (s *Store) VariantCounts(ctx context.Context, since *time.Time) ([]model.VariantCount, error) {
	query := `SELECT variant, COUNT(*), COUNT(DISTINCT session_id)
		FROM tape
		WHERE (? = '' OR created_at >= ?)
		GROUP BY variant
		ORDER BY variant`
	bound := ""
	if since != nil {
		bound = timestamp(*since)
	}
	rows, err := s.db.QueryContext(ctx, query, bound, bound)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.VariantCount
	for rows.Next() {
		var vc model.VariantCount
		if err := rows.Scan(&vc.Variant, &vc.Entries, &vc.Session); err != nil {
			return nil, err
		}
		result = append(result, vc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// timestampLayout is fixed width so stored values compare correctly as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func timestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timestampLayout)
}

func reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
