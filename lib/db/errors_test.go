package db

import (
	"errors"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewConnectionError("SQLite", cause)

	want := "ConnectionError (SQLite): connection refused"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("duplicate key")
	err := NewUpdateError("MySQL", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to reach the original cause")
	}

	var typed *Error
	if !errors.As(err, &typed) {
		t.Fatal("Expected errors.As to match *Error")
	}
	if typed.Code != ErrCUpdate || typed.Backend != "MySQL" {
		t.Errorf("Expected UpdateError for MySQL, got %s for %s", typed.Code, typed.Backend)
	}
}

func TestIsConnectionError(t *testing.T) {
	if !IsConnectionError(NewConnectionError("MongoDB", errors.New("timeout"))) {
		t.Error("Expected connection error to be detected")
	}
	if IsConnectionError(NewQueryError("SQLite", errors.New("syntax"))) {
		t.Error("Expected query error not to be a connection error")
	}
	if IsConnectionError(errors.New("plain")) {
		t.Error("Expected plain error not to be a connection error")
	}
}
