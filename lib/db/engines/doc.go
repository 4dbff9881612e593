// Package engines selects and connects the storage backend configured at
// startup. Exactly one processor variant is constructed per process; the
// only automatic fallback is from an unreachable document store to the
// embedded SQLite engine, since every other backend failure indicates a
// configuration error the operator must fix.
package engines
