// Package user implements the user directory: the lifecycle of the logical
// users namespace over whichever storage backend is bound.
//
// The directory moves through three states at startup: uninitialized,
// provisioned (namespace exists) and seeded (default accounts inserted if
// the namespace was empty). After that it offers credential checks and
// mutations (Add, AddWithDetails, Remove) plus a cached read path for
// display purposes.
//
// Error policy: backend failures are logged and converted to boolean or
// empty outcomes; no db.Error ever escapes to the web layer. Expected
// outcomes like "username already exists" and "password too short" are
// boolean returns, not errors.
package user
