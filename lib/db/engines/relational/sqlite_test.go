package relational

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dragonrex/sdash/lib/db"
	dbtesting "github.com/dragonrex/sdash/lib/db/testing"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	return NewSQLite(db.NewHandle(filepath.Join(t.TempDir(), "test.db")))
}

func TestSQLiteConformance(t *testing.T) {
	dbtesting.RunSQLProcessorTests(t, "SQLite", func() db.Processor {
		return NewSQLite(db.NewHandle(filepath.Join(t.TempDir(), "test.db")))
	})
}

func TestSQLiteLastInsertRowID(t *testing.T) {
	processor := newTestSQLite(t)
	if err := processor.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer processor.Disconnect()

	result, err := processor.Update("CREATE TABLE logs (id INTEGER PRIMARY KEY AUTOINCREMENT, message TEXT)")
	if err != nil {
		t.Fatalf("CREATE TABLE failed: %v", err)
	}
	result.Close()

	for want := 1; want <= 2; want++ {
		result, err := processor.Update("INSERT INTO logs (message) VALUES (?)", "entry")
		if err != nil {
			t.Fatalf("INSERT failed: %v", err)
		}
		result.Next()
		if got := result.GetInt("lastInsertRowId"); got != want {
			t.Errorf("Expected lastInsertRowId %d, got %d", want, got)
		}
		result.Close()
	}

	// Non-INSERT statements do not report a row id.
	result, err = processor.Update("UPDATE logs SET message = ?", "changed")
	if err != nil {
		t.Fatalf("UPDATE failed: %v", err)
	}
	result.Next()
	if got := result.GetInt("lastInsertRowId"); got != 0 {
		t.Errorf("Expected no lastInsertRowId on UPDATE, got %d", got)
	}
	if got := result.GetInt("affectedRows"); got != 2 {
		t.Errorf("Expected 2 affected rows, got %d", got)
	}
	result.Close()
}

func TestSQLiteStats(t *testing.T) {
	processor := newTestSQLite(t)
	if err := processor.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer processor.Disconnect()

	stats, err := processor.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	defer stats.Close()

	if !stats.Next() {
		t.Fatal("Expected one stats row")
	}
	if got := stats.GetString("journalMode"); got != "wal" {
		t.Errorf("Expected journal mode wal, got %q", got)
	}
	if got := stats.GetInt("cacheSize"); got != -2000 {
		t.Errorf("Expected cache size -2000, got %d", got)
	}
	if got := stats.GetInt("databaseSize"); got <= 0 {
		t.Errorf("Expected positive database size, got %d", got)
	}
}

func TestSQLiteOptimize(t *testing.T) {
	processor := newTestSQLite(t)

	if err := processor.Optimize(); err == nil {
		t.Error("Expected Optimize to fail before Connect")
	}

	if err := processor.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer processor.Disconnect()

	if err := processor.Optimize(); err != nil {
		t.Errorf("Optimize failed: %v", err)
	}
}

func TestSQLiteCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	processor := NewSQLite(db.NewHandle(path))

	if err := processor.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer processor.Disconnect()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("Expected parent directory to exist: %v", err)
	}
}

func TestSQLitePrefixStripped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	processor := NewSQLite(db.NewHandle("sqlite:" + path))

	if err := processor.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer processor.Disconnect()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected database file at the unprefixed path: %v", err)
	}
}
