package relational

import (
	"github.com/dragonrex/sdash/lib/db"
)

// NewMariaDB creates the MariaDB variant. MariaDB speaks the MySQL wire
// protocol, so only the diagnostic label differs from the MySQL variant.
func NewMariaDB(handle *db.Handle) db.Processor {
	return &sqlProcessor{
		handle: handle,
		label:  "MariaDB",
		driver: "mysql",
		dsn:    mysqlDSN(handle),
	}
}
