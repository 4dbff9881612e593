package auth

import "time"

// --------------------------------------------------------------------------
// Session Rules
// --------------------------------------------------------------------------

// Session carries the attribute values the web layer stores per login. The
// web layer owns the storage; this package only produces the values and
// the expiry verdict.
type Session struct {
	Username  string
	LoginTime time.Time
	Role      string
}

// SessionState is the verdict of a session validity check. None and
// Expired are distinct so the web layer can signal "session expired" to
// the client separately from "no session".
type SessionState uint8

const (
	SessionNone    SessionState = iota // no session present
	SessionValid                       // session within the timeout window
	SessionExpired                     // session aged out, all state must be cleared
)

func (s SessionState) String() string {
	switch s {
	case SessionValid:
		return "valid"
	case SessionExpired:
		return "expired"
	default:
		return "none"
	}
}

// ValidateSession checks a session against the configured timeout: it is
// valid while now - LoginTime < sessionTimeout. On SessionExpired the
// caller must clear all session attributes.
func (g *Gate) ValidateSession(session *Session, now time.Time) SessionState {
	if session == nil || session.Username == "" {
		return SessionNone
	}
	if now.Sub(session.LoginTime) < g.sessionTimeout() {
		return SessionValid
	}
	return SessionExpired
}

// SessionRemaining returns how long the session stays valid from now, or
// zero if it is already expired or absent.
func (g *Gate) SessionRemaining(session *Session, now time.Time) time.Duration {
	if g.ValidateSession(session, now) != SessionValid {
		return 0
	}
	return g.sessionTimeout() - now.Sub(session.LoginTime)
}

func (g *Gate) sessionTimeout() time.Duration {
	return time.Duration(g.cfg.SessionTimeoutSec) * time.Second
}
