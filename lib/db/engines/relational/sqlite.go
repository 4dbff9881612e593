package relational

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"github.com/dragonrex/sdash/lib/db"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// sqlitePragmas is the fixed durability/performance sequence applied right
// after the liveness probe, in order: write-ahead logging, normal sync
// mode, a 2MB page cache, in-memory temp storage, a 128MB memory-mapped
// I/O ceiling, statistics-driven optimization, foreign-key enforcement and
// incremental auto-vacuum.
var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA cache_size = -2000",
	"PRAGMA temp_store = MEMORY",
	"PRAGMA mmap_size = 134217728",
	"PRAGMA optimize",
	"PRAGMA foreign_keys = ON",
	"PRAGMA auto_vacuum = INCREMENTAL",
}

// SQLite is the embedded-file relational variant. Beyond the shared SQL
// behavior it tunes the database with a fixed pragma sequence on connect
// and reports the last generated row id for INSERT statements.
type SQLite struct {
	sqlProcessor
}

// NewSQLite creates the embedded-file processor. The handle URL is the
// database file path (an optional "sqlite:" prefix is stripped); the parent
// directory is created on connect if missing.
func NewSQLite(handle *db.Handle) *SQLite {
	path := strings.TrimPrefix(handle.URL, "sqlite:")

	p := &SQLite{sqlProcessor{
		handle:         handle,
		label:          "SQLite",
		driver:         "sqlite",
		dsn:            path,
		reportInsertID: true,
	}}
	p.prepare = func() error { return ensureParentDir(path) }
	p.setup = applyPragmas
	return p
}

// Optimize re-runs the statistics optimizer and reclaims free pages. Should
// be invoked periodically on long-running deployments.
func (s *SQLite) Optimize() error {
	if s.pool == nil {
		return db.NewUpdateError(s.label, errNotConnected)
	}
	for _, pragma := range []string{"PRAGMA optimize", "PRAGMA incremental_vacuum"} {
		if _, err := s.pool.Exec(pragma); err != nil {
			return db.NewUpdateError(s.label, err)
		}
	}
	return nil
}

// Stats returns a single-row cursor with the database size in bytes, the
// active journal mode and the configured cache size.
func (s *SQLite) Stats() (*db.Result, error) {
	if s.pool == nil {
		return nil, db.NewQueryError(s.label, errNotConnected)
	}

	row := db.Row{}

	var size int64
	if err := s.pool.QueryRow("SELECT page_count * page_size AS size FROM pragma_page_count(), pragma_page_size()").Scan(&size); err != nil {
		return nil, db.NewQueryError(s.label, err)
	}
	row["databaseSize"] = size

	var journalMode string
	if err := s.pool.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		return nil, db.NewQueryError(s.label, err)
	}
	row["journalMode"] = journalMode

	var cacheSize int
	if err := s.pool.QueryRow("PRAGMA cache_size").Scan(&cacheSize); err != nil {
		return nil, db.NewQueryError(s.label, err)
	}
	row["cacheSize"] = cacheSize

	return db.NewResult([]db.Row{row}), nil
}

func applyPragmas(ctx context.Context, pool *sql.DB) error {
	for _, pragma := range sqlitePragmas {
		if _, err := pool.ExecContext(ctx, pragma); err != nil {
			return err
		}
	}
	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "/" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
