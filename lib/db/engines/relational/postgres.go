package relational

import (
	"net/url"

	"github.com/dragonrex/sdash/lib/db"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

// NewPostgres creates the PostgreSQL variant. The handle URL is a standard
// connection URL, e.g. "postgres://localhost:5432/dashboard"; credentials
// from the handle are injected into it. PostgreSQL only accepts numbered
// parameters, so ? placeholders are rewritten to $1..$n.
func NewPostgres(handle *db.Handle) db.Processor {
	return &sqlProcessor{
		handle:         handle,
		label:          "PostgreSQL",
		driver:         "pgx",
		dsn:            postgresDSN(handle),
		numberedParams: true,
	}
}

func postgresDSN(handle *db.Handle) string {
	if handle.Username == "" {
		return handle.URL
	}
	u, err := url.Parse(handle.URL)
	if err != nil {
		return handle.URL
	}
	u.User = url.UserPassword(handle.Username, handle.Password)
	return u.String()
}
