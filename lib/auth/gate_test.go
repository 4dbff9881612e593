package auth

import (
	"testing"
	"time"

	"github.com/dragonrex/sdash/lib/config"
)

// stubDirectory is an in-memory Authenticator for gate tests.
type stubDirectory map[string]string

func (s stubDirectory) Authenticate(username, password string) bool {
	stored, ok := s[username]
	return ok && stored == password
}

func newTestGate(users stubDirectory) *Gate {
	cfg := config.Default()
	cfg.DefaultUsers = []config.Account{
		{Username: "viewer", Password: "viewer123", Role: "user", Permissions: []string{"dashboard_access"}},
	}
	return NewGate(users, cfg)
}

func TestGateStaticAdmin(t *testing.T) {
	gate := newTestGate(stubDirectory{})

	decision := gate.AuthenticateRequest("admin", "admin123", "10.0.0.1")
	if decision.Outcome != OutcomeAllowed {
		t.Fatalf("Expected allowed, got %s", decision.Outcome)
	}
	if decision.Role != "administrator" {
		t.Errorf("Expected administrator role, got %q", decision.Role)
	}
	if len(decision.Permissions) != 2 {
		t.Errorf("Expected admin permissions, got %v", decision.Permissions)
	}
}

func TestGateDefaultUserAccount(t *testing.T) {
	gate := newTestGate(stubDirectory{})

	decision := gate.AuthenticateRequest("viewer", "viewer123", "10.0.0.1")
	if decision.Outcome != OutcomeAllowed {
		t.Fatalf("Expected allowed, got %s", decision.Outcome)
	}
	if decision.Role != "user" {
		t.Errorf("Expected user role, got %q", decision.Role)
	}
}

func TestGateDirectoryUser(t *testing.T) {
	gate := newTestGate(stubDirectory{"alice": "wonder123"})

	decision := gate.AuthenticateRequest("alice", "wonder123", "10.0.0.1")
	if decision.Outcome != OutcomeAllowed {
		t.Fatalf("Expected allowed, got %s", decision.Outcome)
	}

	// Persisted-only users fall back to the generic role and permission.
	if decision.Role != "user" {
		t.Errorf("Expected fallback role user, got %q", decision.Role)
	}
	if len(decision.Permissions) != 1 || decision.Permissions[0] != "dashboard_access" {
		t.Errorf("Expected fallback permissions, got %v", decision.Permissions)
	}
}

func TestGateStaticAccountResolution(t *testing.T) {
	// A statically configured username authenticated through the directory
	// still resolves to its static role and permissions.
	gate := newTestGate(stubDirectory{"admin": "stored456"})

	decision := gate.AuthenticateRequest("admin", "stored456", "10.0.0.1")
	if decision.Outcome != OutcomeAllowed {
		t.Fatalf("Expected allowed, got %s", decision.Outcome)
	}
	if decision.Role != "administrator" {
		t.Errorf("Expected administrator role, got %q", decision.Role)
	}
}

func TestGateRejectsBlankAndShort(t *testing.T) {
	gate := newTestGate(stubDirectory{"alice": "abc"})

	for _, tt := range []struct{ username, password string }{
		{"", ""},
		{"   ", "wonder123"},
		{"alice", ""},
		{"alice", "   "},
		{"alice", "abc"}, // below the minimum length even though it matches
	} {
		decision := gate.AuthenticateRequest(tt.username, tt.password, "10.0.0.2")
		if decision.Outcome != OutcomeRejected {
			t.Errorf("Expected %q/%q to be rejected, got %s", tt.username, tt.password, decision.Outcome)
		}
	}

	if got := gate.Attempts("10.0.0.2"); got != 5 {
		t.Errorf("Expected 5 recorded failures, got %d", got)
	}
}

func TestGateBlocksAfterMaxAttempts(t *testing.T) {
	gate := newTestGate(stubDirectory{})
	addr := "10.0.0.3"

	for i := 0; i < gate.cfg.MaxLoginAttempts; i++ {
		decision := gate.AuthenticateRequest("admin", "wrong999", addr)
		if decision.Outcome != OutcomeRejected {
			t.Fatalf("Expected rejection %d, got %s", i+1, decision.Outcome)
		}
	}

	// Once blocked, even correct credentials are refused and the counter
	// stops growing.
	decision := gate.AuthenticateRequest("admin", "admin123", addr)
	if decision.Outcome != OutcomeBlocked {
		t.Fatalf("Expected blocked, got %s", decision.Outcome)
	}
	if got := gate.Attempts(addr); got != gate.cfg.MaxLoginAttempts {
		t.Errorf("Expected counter to stay at %d, got %d", gate.cfg.MaxLoginAttempts, got)
	}
}

func TestGateResetOnSuccess(t *testing.T) {
	gate := newTestGate(stubDirectory{})
	addr := "10.0.0.4"

	for i := 0; i < 3; i++ {
		gate.AuthenticateRequest("admin", "wrong999", addr)
	}
	if got := gate.Attempts(addr); got != 3 {
		t.Fatalf("Expected 3 failures, got %d", got)
	}

	decision := gate.AuthenticateRequest("admin", "admin123", addr)
	if decision.Outcome != OutcomeAllowed {
		t.Fatalf("Expected allowed, got %s", decision.Outcome)
	}
	if got := gate.Attempts(addr); got != 0 {
		t.Errorf("Expected counter cleared after success, got %d", got)
	}
}

func TestGateThrottlesPerAddress(t *testing.T) {
	gate := newTestGate(stubDirectory{})

	for i := 0; i < gate.cfg.MaxLoginAttempts; i++ {
		gate.AuthenticateRequest("admin", "wrong999", "10.0.0.5")
	}

	// A different client address is unaffected.
	decision := gate.AuthenticateRequest("admin", "admin123", "10.0.0.6")
	if decision.Outcome != OutcomeAllowed {
		t.Errorf("Expected other address to stay unthrottled, got %s", decision.Outcome)
	}
}

func TestGatePrune(t *testing.T) {
	gate := newTestGate(stubDirectory{})
	addr := "10.0.0.7"

	gate.AuthenticateRequest("admin", "wrong999", addr)
	if got := gate.Attempts(addr); got != 1 {
		t.Fatalf("Expected 1 failure, got %d", got)
	}

	// A generous window keeps the entry.
	gate.Prune(time.Hour)
	if got := gate.Attempts(addr); got != 1 {
		t.Errorf("Expected entry to survive pruning, got %d", got)
	}

	// A window shorter than the entry's age drops it.
	time.Sleep(5 * time.Millisecond)
	gate.Prune(time.Millisecond)
	if got := gate.Attempts(addr); got != 0 {
		t.Errorf("Expected entry to be pruned, got %d", got)
	}
}
