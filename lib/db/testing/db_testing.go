package testing

import (
	"testing"

	"github.com/dragonrex/sdash/lib/db"
)

// ProcessorFactory is a function that creates a new, not yet connected
// processor instance against a fresh backing store.
type ProcessorFactory func() db.Processor

// RunSQLProcessorTests runs a standardized test suite for a relational
// db.Processor implementation. Every subtest receives a fresh processor
// from the factory.
func RunSQLProcessorTests(t *testing.T, name string, factory ProcessorFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Lifecycle", func(t *testing.T) {
			testLifecycle(t, factory())
		})

		t.Run("NotConnected", func(t *testing.T) {
			testNotConnected(t, factory())
		})

		t.Run("Insert&Query", func(t *testing.T) {
			testInsertQuery(t, factory())
		})

		t.Run("ParameterBinding", func(t *testing.T) {
			testParameterBinding(t, factory())
		})

		t.Run("UpdateResult", func(t *testing.T) {
			testUpdateResult(t, factory())
		})

		t.Run("CursorZeroValues", func(t *testing.T) {
			testCursorZeroValues(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// connect connects the processor and fails the test on error.
func connect(t *testing.T, processor db.Processor) {
	t.Helper()
	if err := processor.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
}

// provision creates a scratch table valid in every supported SQL dialect.
func provision(t *testing.T, processor db.Processor) {
	t.Helper()
	result, err := processor.Update("CREATE TABLE items (name VARCHAR(50), qty INT)")
	if err != nil {
		t.Fatalf("CREATE TABLE failed: %v", err)
	}
	result.Close()
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testLifecycle(t *testing.T, processor db.Processor) {
	connect(t, processor)

	if processor.Conn() == nil {
		t.Error("Expected raw connection handle after Connect")
	}
	if processor.Name() == "" {
		t.Error("Expected non-empty backend name")
	}

	if err := processor.Disconnect(); err != nil {
		t.Errorf("Disconnect failed: %v", err)
	}
}

func testNotConnected(t *testing.T, processor db.Processor) {
	// Disconnect on a never-connected processor must be a no-op.
	if err := processor.Disconnect(); err != nil {
		t.Errorf("Disconnect on never-connected processor returned %v", err)
	}

	if processor.Conn() != nil {
		t.Error("Expected nil raw connection before Connect")
	}

	if _, err := processor.Query("SELECT 1"); err == nil {
		t.Error("Expected error querying a disconnected processor")
	}
	if _, err := processor.Update("DELETE FROM items"); err == nil {
		t.Error("Expected error updating a disconnected processor")
	}
}

func testInsertQuery(t *testing.T, processor db.Processor) {
	connect(t, processor)
	defer processor.Disconnect()
	provision(t, processor)

	result, err := processor.Update("INSERT INTO items (name, qty) VALUES (?, ?)", "widget", 3)
	if err != nil {
		t.Fatalf("INSERT failed: %v", err)
	}
	if result.Next(); result.GetInt("affectedRows") != 1 {
		t.Errorf("Expected 1 affected row, got %d", result.GetInt("affectedRows"))
	}
	result.Close()

	rows, err := processor.Query("SELECT name, qty FROM items")
	if err != nil {
		t.Fatalf("SELECT failed: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatal("Expected one row")
	}
	if got := rows.GetString("name"); got != "widget" {
		t.Errorf("Expected name widget, got %q", got)
	}
	if got := rows.GetInt("qty"); got != 3 {
		t.Errorf("Expected qty 3, got %d", got)
	}
	if rows.Next() {
		t.Error("Expected cursor exhaustion after one row")
	}
}

func testParameterBinding(t *testing.T, processor db.Processor) {
	connect(t, processor)
	defer processor.Disconnect()
	provision(t, processor)

	for _, item := range []string{"alpha", "beta", "gamma"} {
		result, err := processor.Update("INSERT INTO items (name, qty) VALUES (?, ?)", item, len(item))
		if err != nil {
			t.Fatalf("INSERT %s failed: %v", item, err)
		}
		result.Close()
	}

	rows, err := processor.Query("SELECT qty FROM items WHERE name = ?", "beta")
	if err != nil {
		t.Fatalf("SELECT failed: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatal("Expected a match for bound parameter")
	}
	if got := rows.GetInt("qty"); got != 4 {
		t.Errorf("Expected qty 4, got %d", got)
	}
}

func testUpdateResult(t *testing.T, processor db.Processor) {
	connect(t, processor)
	defer processor.Disconnect()
	provision(t, processor)

	for i := 0; i < 3; i++ {
		result, err := processor.Update("INSERT INTO items (name, qty) VALUES (?, ?)", "bulk", i)
		if err != nil {
			t.Fatalf("INSERT failed: %v", err)
		}
		result.Close()
	}

	result, err := processor.Update("UPDATE items SET qty = ? WHERE name = ?", 9, "bulk")
	if err != nil {
		t.Fatalf("UPDATE failed: %v", err)
	}
	if result.Next(); result.GetInt("affectedRows") != 3 {
		t.Errorf("Expected 3 affected rows, got %d", result.GetInt("affectedRows"))
	}
	result.Close()

	result, err = processor.Update("DELETE FROM items WHERE name = ?", "bulk")
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	if result.Next(); result.GetInt("affectedRows") != 3 {
		t.Errorf("Expected 3 deleted rows, got %d", result.GetInt("affectedRows"))
	}
	result.Close()
}

func testCursorZeroValues(t *testing.T, processor db.Processor) {
	connect(t, processor)
	defer processor.Disconnect()
	provision(t, processor)

	rows, err := processor.Query("SELECT name, qty FROM items")
	if err != nil {
		t.Fatalf("SELECT failed: %v", err)
	}

	// Reads before positioning and on absent columns yield zero values.
	if got := rows.GetString("name"); got != "" {
		t.Errorf("Expected empty string before Next, got %q", got)
	}
	if got := rows.GetInt("nonexistent"); got != 0 {
		t.Errorf("Expected 0 for absent column, got %d", got)
	}
	if rows.Next() {
		t.Error("Expected no rows in empty table")
	}

	// Close is idempotent, including on an empty cursor.
	rows.Close()
	rows.Close()
}
