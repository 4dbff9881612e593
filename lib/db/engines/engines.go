package engines

import (
	"github.com/dragonrex/sdash/lib/db"
	"github.com/dragonrex/sdash/lib/db/engines/mongodb"
	"github.com/dragonrex/sdash/lib/db/engines/relational"
	log "github.com/sirupsen/logrus"
)

// --------------------------------------------------------------------------
// Backend Selection
// --------------------------------------------------------------------------

// Open selects the processor variant for the configured storage kind,
// connects it and returns the ready binding.
//
// The document store is the only backend that requires an external process,
// so a failed document-store connect falls back to a fresh SQLite connect
// on fallbackPath. A connect failure on any relational variant is a
// configuration error the operator must fix and is returned as-is; callers
// treat it as fatal for startup.
func Open(kind db.Kind, handle *db.Handle, database, fallbackPath string) (*db.Binding, error) {
	handle.Document = kind.IsDocument()

	var processor db.Processor
	switch kind {
	case db.KindMySQL:
		processor = relational.NewMySQL(handle)
	case db.KindPostgreSQL:
		processor = relational.NewPostgres(handle)
	case db.KindMariaDB:
		processor = relational.NewMariaDB(handle)
	case db.KindMongoDB:
		processor = mongodb.New(handle, database)
	default:
		processor = relational.NewSQLite(handle)
	}
	log.WithField("backend", processor.Name()).Info("storage backend selected")

	if err := processor.Connect(); err != nil {
		if kind != db.KindMongoDB {
			return nil, err
		}

		log.WithError(err).Warn("document store unreachable, falling back to SQLite")
		fallback := db.NewHandle(fallbackPath).WithPool(handle.Pool)
		sqlite := relational.NewSQLite(fallback)
		if err := sqlite.Connect(); err != nil {
			return nil, err
		}
		return db.Bind(fallback, sqlite), nil
	}

	return db.Bind(handle, processor), nil
}
