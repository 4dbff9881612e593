package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/VictoriaMetrics/metrics"
	"github.com/dragonrex/sdash/lib/db"
	log "github.com/sirupsen/logrus"
)

var errNotConnected = errors.New("processor is not connected")

// --------------------------------------------------------------------------
// Shared Relational Processor
// --------------------------------------------------------------------------

// sqlProcessor is the base implementation shared by all relational engine
// variants. The variants differ in driver, DSN construction, placeholder
// dialect and the post-probe setup hook; everything else (pooling, probing,
// row buffering, update results) is common.
type sqlProcessor struct {
	handle *db.Handle
	label  string // backend label for diagnostics
	driver string // database/sql driver name
	dsn    string

	// prepare runs before the pool is opened (e.g. ensure the database
	// directory exists). setup runs after the liveness probe succeeded
	// (e.g. the SQLite pragma sequence).
	prepare func() error
	setup   func(ctx context.Context, pool *sql.DB) error

	// numberedParams rewrites ? placeholders to $1..$n for engines that
	// only accept numbered parameters.
	numberedParams bool

	// reportInsertID augments INSERT update results with the last
	// generated row identifier.
	reportInsertID bool

	pool *sql.DB
}

// Connect opens the pool, applies the handle's pool tuning and performs a
// liveness probe bounded by the configured connect timeout.
func (p *sqlProcessor) Connect() error {
	if p.prepare != nil {
		if err := p.prepare(); err != nil {
			return db.NewConnectionError(p.label, err)
		}
	}

	pool, err := sql.Open(p.driver, p.dsn)
	if err != nil {
		return db.NewConnectionError(p.label, err)
	}
	p.handle.ApplyPool(pool)

	ctx, cancel := context.WithTimeout(context.Background(), p.handle.Pool.ConnectTimeout)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return db.NewConnectionError(p.label, err)
	}

	if p.setup != nil {
		if err := p.setup(ctx, pool); err != nil {
			_ = pool.Close()
			return db.NewConnectionError(p.label, err)
		}
	}

	p.pool = pool
	log.WithField("backend", p.label).Info("database connection established")
	return nil
}

// Disconnect closes the pool. Calling it on a never-connected processor is
// a no-op.
func (p *sqlProcessor) Disconnect() error {
	if p.pool == nil {
		return nil
	}
	err := p.pool.Close()
	p.pool = nil
	if err != nil {
		return db.NewConnectionError(p.label, err)
	}
	log.WithField("backend", p.label).Info("database connection closed")
	return nil
}

// Query executes a parameterized SQL statement and buffers all rows into a
// cursor. The pooled connection is checked out for the duration of one
// statement and returned deterministically.
func (p *sqlProcessor) Query(target string, args ...any) (*db.Result, error) {
	if p.pool == nil {
		return nil, db.NewQueryError(p.label, errNotConnected)
	}
	queryCounter(p.label).Inc()

	rows, err := p.pool.Query(p.rewrite(target), args...)
	if err != nil {
		queryFailCounter(p.label).Inc()
		return nil, db.NewQueryError(p.label, fmt.Errorf("%s: %w", target, err))
	}
	defer rows.Close()

	result, err := bufferRows(rows)
	if err != nil {
		queryFailCounter(p.label).Inc()
		return nil, db.NewQueryError(p.label, fmt.Errorf("%s: %w", target, err))
	}
	return result, nil
}

// Update executes a mutating statement and returns a single synthetic row
// reporting the affected-row count. Engines with reportInsertID set also
// report the last generated row identifier for INSERT statements.
func (p *sqlProcessor) Update(target string, args ...any) (*db.Result, error) {
	if p.pool == nil {
		return nil, db.NewUpdateError(p.label, errNotConnected)
	}
	updateCounter(p.label).Inc()

	res, err := p.pool.Exec(p.rewrite(target), args...)
	if err != nil {
		updateFailCounter(p.label).Inc()
		return nil, db.NewUpdateError(p.label, fmt.Errorf("%s: %w", target, err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	row := db.Row{"affectedRows": int(affected)}

	if p.reportInsertID && isInsert(target) {
		if id, err := res.LastInsertId(); err == nil {
			row["lastInsertRowId"] = id
		}
	}

	return db.NewResult([]db.Row{row}), nil
}

// Conn exposes the raw pool, or nil if not connected.
func (p *sqlProcessor) Conn() *sql.DB {
	return p.pool
}

// Name returns the backend label.
func (p *sqlProcessor) Name() string {
	return p.label
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// bufferRows drains a sql.Rows into an owned row buffer. Byte slices are
// converted to strings so cursor reads stay loosely typed.
func bufferRows(rows *sql.Rows) (*db.Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var buffered []db.Row
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := db.Row{}
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
			} else {
				row[column] = values[i]
			}
		}
		buffered = append(buffered, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return db.NewResult(buffered), nil
}

// rewrite converts ? placeholders to $1..$n when the engine requires
// numbered parameters. Placeholders inside single-quoted literals are left
// untouched.
func (p *sqlProcessor) rewrite(query string) string {
	if !p.numberedParams || !strings.ContainsRune(query, '?') {
		return query
	}

	var sb strings.Builder
	n := 0
	quoted := false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
			sb.WriteRune(r)
		case r == '?' && !quoted:
			n++
			fmt.Fprintf(&sb, "$%d", n)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isInsert(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "INSERT")
}

func queryCounter(label string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`sdash_db_queries_total{backend=%q}`, label))
}

func queryFailCounter(label string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`sdash_db_query_failures_total{backend=%q}`, label))
}

func updateCounter(label string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`sdash_db_updates_total{backend=%q}`, label))
}

func updateFailCounter(label string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`sdash_db_update_failures_total{backend=%q}`, label))
}
