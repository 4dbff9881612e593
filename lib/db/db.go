package db

import (
	"database/sql"
	"strings"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// Kind identifies a storage backend family.
type Kind string

const (
	KindSQLite     Kind = "SQLITE"
	KindMySQL      Kind = "MYSQL"
	KindPostgreSQL Kind = "POSTGRESQL"
	KindMariaDB    Kind = "MARIADB"
	KindMongoDB    Kind = "MONGODB"
)

// ParseKind normalizes a configured storage kind string. Unknown values map
// to KindSQLite, which is the default backend.
func ParseKind(s string) Kind {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindMySQL:
		return KindMySQL
	case KindPostgreSQL:
		return KindPostgreSQL
	case KindMariaDB:
		return KindMariaDB
	case KindMongoDB:
		return KindMongoDB
	default:
		return KindSQLite
	}
}

// IsDocument reports whether the kind addresses a document-oriented store.
func (k Kind) IsDocument() bool {
	return k == KindMongoDB
}

// --------------------------------------------------------------------------
// Processor Interface
// --------------------------------------------------------------------------

// Processor is the capability contract every storage backend must satisfy.
// A processor must be connected exactly once before the first Query or
// Update and disconnected at most once at shutdown.
//
// The meaning of target differs by backend family: relational processors
// interpret it as a parameterized SQL statement with positional
// placeholders, the document processor interprets it as a collection name
// with "field:value" equality filter tokens (Query) or an operation token
// plus a serialized document (Update).
type Processor interface {

	// Connect establishes the underlying pool or client and performs a
	// liveness probe before returning. Any transport or auth failure is
	// reported as a connection Error.
	Connect() error

	// Disconnect releases all pooled resources. Calling it on a processor
	// that was never connected is a no-op.
	Disconnect() error

	// Query executes a read operation and returns a cursor over the result
	// rows. The cursor must be closed by the caller.
	Query(target string, args ...any) (*Result, error)

	// Update executes a mutating operation and returns a single synthetic
	// row describing the outcome (affected rows, inserted id, per-operation
	// counters for the document store).
	Update(target string, args ...any) (*Result, error)

	// Conn exposes the raw pooled handle for advanced callers. It returns
	// nil if the processor is not connected; document processors always
	// return nil.
	Conn() *sql.DB

	// Name returns the backend label used for diagnostics.
	Name() string
}
