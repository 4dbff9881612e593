package db

import (
	"database/sql"
	"testing"
)

// recordingProcessor counts calls so binding forwarding can be asserted
// without a real backend.
type recordingProcessor struct {
	queries     int
	updates     int
	disconnects int
}

func (p *recordingProcessor) Connect() error    { return nil }
func (p *recordingProcessor) Disconnect() error { p.disconnects++; return nil }
func (p *recordingProcessor) Conn() *sql.DB     { return nil }
func (p *recordingProcessor) Name() string      { return "Recording" }

func (p *recordingProcessor) Query(target string, args ...any) (*Result, error) {
	p.queries++
	return NewResult([]Row{{"target": target}}), nil
}

func (p *recordingProcessor) Update(target string, args ...any) (*Result, error) {
	p.updates++
	return NewResult([]Row{{"affectedRows": 1}}), nil
}

func TestBindingForwards(t *testing.T) {
	processor := &recordingProcessor{}
	handle := NewHandle("memory")
	binding := Bind(handle, processor)

	if binding.Handle() != handle {
		t.Error("Expected binding to expose its handle")
	}
	if binding.Name() != "Recording" {
		t.Errorf("Expected processor name, got %q", binding.Name())
	}
	if binding.Document() {
		t.Error("Expected non-document binding")
	}

	result, err := binding.Query("SELECT 1")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	result.Close()

	result, err = binding.Update("DELETE FROM x")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	result.Close()

	if processor.queries != 1 || processor.updates != 1 {
		t.Errorf("Expected one query and one update, got %d/%d", processor.queries, processor.updates)
	}
}

func TestBindingDisconnectOnce(t *testing.T) {
	processor := &recordingProcessor{}
	binding := Bind(NewHandle("memory"), processor)

	for i := 0; i < 3; i++ {
		if err := binding.Disconnect(); err != nil {
			t.Fatalf("Disconnect failed: %v", err)
		}
	}

	if processor.disconnects != 1 {
		t.Errorf("Expected exactly one processor disconnect, got %d", processor.disconnects)
	}
}
