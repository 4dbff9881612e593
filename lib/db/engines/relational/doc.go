// Package relational implements the db.Processor contract for SQL engines
// on top of database/sql connection pools.
//
// One shared base implementation covers pooling, the connect-time liveness
// probe, parameterized query execution, row buffering and synthetic update
// results. The engine variants configure it:
//
//   - SQLite (NewSQLite): embedded-file engine via modernc.org/sqlite with
//     a fixed durability/performance pragma sequence applied after the
//     probe, last-insert-rowid reporting and maintenance helpers
//     (Optimize, Stats).
//   - MySQL (NewMySQL) and MariaDB (NewMariaDB): go-sql-driver/mysql,
//     differing only in the diagnostic label.
//   - PostgreSQL (NewPostgres): jackc/pgx, with ? placeholders rewritten
//     to numbered parameters.
//
// Connections are checked out per statement and returned deterministically;
// there is no cross-statement transaction scope. All failures are wrapped
// into db.Error with the engine's label.
package relational
