// Package mongodb implements the db.Processor contract for the
// document-oriented backend via the official MongoDB driver.
//
// Addressing differs from the relational variants: Query targets name a
// collection and positional args are "field:value" equality filter tokens
// ANDed together; Update requires an INSERT, UPDATE or DELETE operation
// token followed by an extended-JSON document, with remaining args forming
// the filter for UPDATE and DELETE. Result rows report per-operation
// counters (insertedId/acknowledged, matchedCount/modifiedCount,
// deletedCount).
//
// The processor exposes no raw relational handle; Conn always returns nil.
package mongodb
