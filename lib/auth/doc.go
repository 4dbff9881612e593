// Package auth implements the security logic sitting directly on the user
// directory: per-client-address login throttling, the static-account
// precedence rules and the session expiry contract.
//
// Every login request terminates in exactly one of three outcomes —
// Allowed, Blocked or Rejected — and the gate never returns an error; the
// web layer maps outcomes to responses without distinguishing bad
// usernames from bad passwords.
//
// The failure counters are kept in a concurrent map keyed by client
// address with atomic increments. Prune gives deployments a sliding-window
// bound on the map's growth.
package auth
