package db

import "testing"

func TestResultCursorIteration(t *testing.T) {
	result := NewResult([]Row{
		{"username": "admin", "count": 1},
		{"username": "user", "count": 2},
	})

	// Cursor starts before the first row.
	if got := result.GetString("username"); got != "" {
		t.Errorf("Expected empty string before first Next, got %q", got)
	}

	if !result.Next() {
		t.Fatal("Expected first row")
	}
	if got := result.GetString("username"); got != "admin" {
		t.Errorf("Expected admin, got %q", got)
	}
	if got := result.GetInt("count"); got != 1 {
		t.Errorf("Expected 1, got %d", got)
	}

	if !result.Next() {
		t.Fatal("Expected second row")
	}
	if got := result.GetString("username"); got != "user" {
		t.Errorf("Expected user, got %q", got)
	}

	if result.Next() {
		t.Error("Expected exhaustion after two rows")
	}

	// Reads after exhaustion fall back to zero values.
	if got := result.GetString("username"); got != "" {
		t.Errorf("Expected empty string after exhaustion, got %q", got)
	}
}

func TestResultEmpty(t *testing.T) {
	for _, result := range []*Result{NewResult(nil), NewResult([]Row{})} {
		if result.Next() {
			t.Error("Expected no rows")
		}
		if got := result.GetInt("count"); got != 0 {
			t.Errorf("Expected 0, got %d", got)
		}
	}
}

func TestResultZeroValues(t *testing.T) {
	result := NewResult([]Row{{
		"name":   "widget",
		"absent": nil,
		"qty":    int64(7),
		"ratio":  2.9,
		"note":   "n/a",
	}})
	result.Next()

	if got := result.GetString("absent"); got != "" {
		t.Errorf("Expected empty string for nil value, got %q", got)
	}
	if got := result.GetString("missing"); got != "" {
		t.Errorf("Expected empty string for missing column, got %q", got)
	}
	if got := result.GetInt("missing"); got != 0 {
		t.Errorf("Expected 0 for missing column, got %d", got)
	}

	// Non-numeric values read as int yield 0, numeric values convert.
	if got := result.GetInt("note"); got != 0 {
		t.Errorf("Expected 0 for string value, got %d", got)
	}
	if got := result.GetInt("qty"); got != 7 {
		t.Errorf("Expected 7 for int64 value, got %d", got)
	}
	if got := result.GetInt("ratio"); got != 2 {
		t.Errorf("Expected truncation to 2 for float value, got %d", got)
	}

	// Numeric values read as string are formatted.
	if got := result.GetString("qty"); got != "7" {
		t.Errorf("Expected \"7\", got %q", got)
	}
}

func TestResultCloseIdempotent(t *testing.T) {
	result := NewResult([]Row{{"username": "admin"}})
	result.Next()
	result.Close()

	if result.Next() {
		t.Error("Expected no rows after Close")
	}
	if got := result.GetString("username"); got != "" {
		t.Errorf("Expected empty string after Close, got %q", got)
	}

	// Second close must not panic or change anything.
	result.Close()
	if result.Next() {
		t.Error("Expected no rows after second Close")
	}
}
