package auth

import (
	"testing"
	"time"

	"github.com/dragonrex/sdash/lib/config"
)

func TestValidateSession(t *testing.T) {
	gate := NewGate(stubDirectory{}, config.Default())
	timeout := time.Duration(gate.cfg.SessionTimeoutSec) * time.Second
	now := time.Now()

	if got := gate.ValidateSession(nil, now); got != SessionNone {
		t.Errorf("Expected none for nil session, got %s", got)
	}
	if got := gate.ValidateSession(&Session{}, now); got != SessionNone {
		t.Errorf("Expected none for empty username, got %s", got)
	}

	fresh := &Session{Username: "admin", LoginTime: now}
	if got := gate.ValidateSession(fresh, now); got != SessionValid {
		t.Errorf("Expected fresh session to be valid, got %s", got)
	}

	almostExpired := &Session{Username: "admin", LoginTime: now.Add(-timeout + time.Second)}
	if got := gate.ValidateSession(almostExpired, now); got != SessionValid {
		t.Errorf("Expected session just inside the window to be valid, got %s", got)
	}

	// The window is strict: a session of exactly the timeout's age is gone.
	atTimeout := &Session{Username: "admin", LoginTime: now.Add(-timeout)}
	if got := gate.ValidateSession(atTimeout, now); got != SessionExpired {
		t.Errorf("Expected session at the boundary to be expired, got %s", got)
	}

	old := &Session{Username: "admin", LoginTime: now.Add(-timeout - time.Second)}
	if got := gate.ValidateSession(old, now); got != SessionExpired {
		t.Errorf("Expected aged session to be expired, got %s", got)
	}
}

func TestSessionRemaining(t *testing.T) {
	gate := NewGate(stubDirectory{}, config.Default())
	timeout := time.Duration(gate.cfg.SessionTimeoutSec) * time.Second
	now := time.Now()

	session := &Session{Username: "admin", LoginTime: now.Add(-100 * time.Second)}
	if got := gate.SessionRemaining(session, now); got != timeout-100*time.Second {
		t.Errorf("Expected %v remaining, got %v", timeout-100*time.Second, got)
	}

	expired := &Session{Username: "admin", LoginTime: now.Add(-2 * timeout)}
	if got := gate.SessionRemaining(expired, now); got != 0 {
		t.Errorf("Expected 0 remaining for expired session, got %v", got)
	}
	if got := gate.SessionRemaining(nil, now); got != 0 {
		t.Errorf("Expected 0 remaining for nil session, got %v", got)
	}
}
