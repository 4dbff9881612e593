// Package db defines the backend-neutral data-access contract of the
// dashboard: the Processor interface that all storage backends implement,
// the forward-only Result cursor, the Handle connection descriptor and the
// Binding that pairs the two for the rest of the application.
//
// The package focuses on:
//   - A unified read/write contract over interchangeable storage backends
//   - A loosely typed, buffered row cursor with zero-value reads
//   - A single error type carrying the backend label and the original cause
//   - Deterministic processor lifecycle (connect once, disconnect once)
//
// Key Components:
//
//   - Processor Interface: the capability set {Connect, Disconnect, Query,
//     Update, Conn} every backend variant must satisfy. Relational variants
//     execute parameterized SQL over a pooled connection; the document
//     variant addresses collections with filter tokens.
//
//   - Result: an ordered sequence of rows, each a case-preserving mapping
//     from column name to scalar value. The cursor starts before the first
//     row, Next advances it, and Close is idempotent.
//
//   - Handle: the immutable connection descriptor (address, optional
//     credentials, document flag, pool tuning) created once at startup.
//
//   - Binding: (Handle, Processor) pair owning the processor lifetime.
//     Callers issue Query/Update through the binding and disconnect it
//     exactly once at shutdown.
//
// Failure semantics: every transport-level failure is wrapped into an Error
// carrying the backend label and the cause. Processors never retry;
// fallback between backends is a caller policy implemented by the engines
// package.
//
// Related Packages:
//
// The engines/relational package implements the Processor contract for
// SQLite, MySQL, PostgreSQL and MariaDB on top of database/sql pools. The
// engines/mongodb package implements it for MongoDB. The engines package
// selects and connects the configured variant, including the documented
// document-store-to-SQLite fallback. The testing package provides a
// standardized conformance suite for relational processor implementations.
package db
