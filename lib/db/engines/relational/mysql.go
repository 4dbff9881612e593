package relational

import (
	"fmt"

	"github.com/dragonrex/sdash/lib/db"

	_ "github.com/go-sql-driver/mysql" // registers the "mysql" driver
)

// NewMySQL creates the MySQL variant of the shared relational processor.
// The handle URL uses the driver's address form, e.g.
// "tcp(localhost:3306)/dashboard"; credentials come from the handle.
func NewMySQL(handle *db.Handle) db.Processor {
	return &sqlProcessor{
		handle: handle,
		label:  "MySQL",
		driver: "mysql",
		dsn:    mysqlDSN(handle),
	}
}

func mysqlDSN(handle *db.Handle) string {
	if handle.Username == "" {
		return handle.URL
	}
	return fmt.Sprintf("%s:%s@%s", handle.Username, handle.Password, handle.URL)
}
