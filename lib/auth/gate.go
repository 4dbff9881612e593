package auth

import (
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/dragonrex/sdash/lib/config"
	"github.com/puzpuzpuz/xsync/v3"
	log "github.com/sirupsen/logrus"
)

// --------------------------------------------------------------------------
// Outcome Types
// --------------------------------------------------------------------------

// Outcome classifies the result of one login request.
type Outcome uint8

const (
	OutcomeRejected Outcome = iota // credentials did not match anything
	OutcomeAllowed                 // credentials matched, session may be issued
	OutcomeBlocked                 // client address is throttled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAllowed:
		return "allowed"
	case OutcomeBlocked:
		return "blocked"
	default:
		return "rejected"
	}
}

// Decision is the full result of one login request. Role and Permissions
// are only set for OutcomeAllowed.
type Decision struct {
	Outcome     Outcome
	Role        string
	Permissions []string
}

// Authenticator is the directory capability the gate consumes.
type Authenticator interface {
	Authenticate(username, password string) bool
}

// --------------------------------------------------------------------------
// Login Gate
// --------------------------------------------------------------------------

// attemptEntry records consecutive login failures from one client address.
type attemptEntry struct {
	Count int
	Last  time.Time
}

// Gate performs per-client-address login throttling on top of the static
// account allow-lists and the user directory. The failure counters live in
// a concurrent map with atomic merge-style increments; Prune bounds their
// growth.
type Gate struct {
	directory Authenticator
	cfg       *config.App
	attempts  *xsync.MapOf[string, attemptEntry]
}

// NewGate creates a login gate over the given directory and configuration.
func NewGate(directory Authenticator, cfg *config.App) *Gate {
	return &Gate{
		directory: directory,
		cfg:       cfg,
		attempts:  xsync.NewMapOf[string, attemptEntry](),
	}
}

// AuthenticateRequest validates one login request from clientAddr.
//
// Order matters: a throttled address is blocked before anything else and
// its counter is not incremented further; blank or too-short credentials
// are rejected without a directory lookup; the statically configured admin
// account and default accounts take precedence over persisted users. Any
// allowed outcome clears the address's failure counter, any rejection
// increments it by one.
func (g *Gate) AuthenticateRequest(username, password, clientAddr string) Decision {
	if g.isBlocked(clientAddr) {
		log.WithField("client", clientAddr).Warn("login blocked, too many attempts")
		outcomeCounter(OutcomeBlocked).Inc()
		return Decision{Outcome: OutcomeBlocked}
	}

	trimmed := strings.TrimSpace(username)
	if trimmed == "" || strings.TrimSpace(password) == "" || len(password) < g.cfg.PasswordMinLength {
		return g.reject(trimmed, clientAddr)
	}

	// Static accounts first: the configured admin, then the configured
	// default users. Login precedence depends on this order.
	if g.cfg.Admin.Username == trimmed && g.cfg.Admin.Password == password {
		return g.allow(trimmed, clientAddr, g.cfg.Admin.Role, g.cfg.Admin.Permissions)
	}
	for _, account := range g.cfg.DefaultUsers {
		if account.Username == trimmed && account.Password == password {
			return g.allow(trimmed, clientAddr, account.Role, account.Permissions)
		}
	}

	if g.directory.Authenticate(trimmed, password) {
		return g.allow(trimmed, clientAddr, g.resolveRole(trimmed), g.resolvePermissions(trimmed))
	}

	return g.reject(trimmed, clientAddr)
}

// Attempts returns the recorded failure count for a client address.
func (g *Gate) Attempts(clientAddr string) int {
	entry, ok := g.attempts.Load(clientAddr)
	if !ok {
		return 0
	}
	return entry.Count
}

// Prune drops failure counters whose last failure is older than maxAge,
// bounding the attempt map's growth. Callers schedule it periodically.
func (g *Gate) Prune(maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)
	g.attempts.Range(func(addr string, entry attemptEntry) bool {
		if entry.Last.Before(cutoff) {
			g.attempts.Delete(addr)
		}
		return true
	})
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

func (g *Gate) allow(username, clientAddr, role string, permissions []string) Decision {
	g.attempts.Delete(clientAddr)
	log.WithFields(log.Fields{"username": username, "client": clientAddr, "role": role}).Info("login successful")
	outcomeCounter(OutcomeAllowed).Inc()
	return Decision{Outcome: OutcomeAllowed, Role: role, Permissions: permissions}
}

func (g *Gate) reject(username, clientAddr string) Decision {
	g.attempts.Compute(clientAddr, func(old attemptEntry, _ bool) (attemptEntry, bool) {
		return attemptEntry{Count: old.Count + 1, Last: time.Now()}, false
	})
	log.WithFields(log.Fields{"username": username, "client": clientAddr}).Warn("login failed")
	outcomeCounter(OutcomeRejected).Inc()
	return Decision{Outcome: OutcomeRejected}
}

func (g *Gate) isBlocked(clientAddr string) bool {
	entry, ok := g.attempts.Load(clientAddr)
	return ok && entry.Count >= g.cfg.MaxLoginAttempts
}

// resolveRole re-scans the static accounts; persisted-only users get the
// generic role.
func (g *Gate) resolveRole(username string) string {
	if g.cfg.Admin.Username == username {
		return g.cfg.Admin.Role
	}
	for _, account := range g.cfg.DefaultUsers {
		if account.Username == username {
			return account.Role
		}
	}
	return "user"
}

// resolvePermissions mirrors resolveRole; persisted-only users get the
// single default permission.
func (g *Gate) resolvePermissions(username string) []string {
	if g.cfg.Admin.Username == username {
		return g.cfg.Admin.Permissions
	}
	for _, account := range g.cfg.DefaultUsers {
		if account.Username == username {
			return account.Permissions
		}
	}
	return []string{"dashboard_access"}
}

func outcomeCounter(outcome Outcome) *metrics.Counter {
	return metrics.GetOrCreateCounter(`sdash_logins_total{outcome="` + outcome.String() + `"}`)
}
