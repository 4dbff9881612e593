package db

import "fmt"

// --------------------------------------------------------------------------
// Result Cursor
// --------------------------------------------------------------------------

// Row maps column or field names to loosely typed scalar values. Column
// names are case-preserving.
type Row map[string]any

// Result is a backend-neutral, forward-only cursor over a buffered result
// set. The cursor starts positioned before the first row; Next advances it.
// Reads against an unpositioned cursor or an absent column return zero
// values instead of failing.
type Result struct {
	rows    []Row
	current int
}

// NewResult creates a cursor over the given rows. The cursor owns the slice.
func NewResult(rows []Row) *Result {
	return &Result{rows: rows, current: -1}
}

// Next advances the cursor to the next row. It returns false once the
// result set is exhausted.
func (r *Result) Next() bool {
	r.current++
	return r.current < len(r.rows)
}

// GetString returns the value of the named column in the current row as a
// string. It returns "" if the column is absent, the value is nil or the
// cursor is not positioned on a valid row.
func (r *Result) GetString(column string) string {
	value := r.currentRow()[column]
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

// GetInt returns the value of the named column in the current row as an
// int. Non-numeric values, absent columns and an unpositioned cursor all
// yield 0.
func (r *Result) GetInt(column string) int {
	switch v := r.currentRow()[column].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case float32:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Close releases the row buffer. It is idempotent and never fails, even on
// an empty or already-closed cursor.
func (r *Result) Close() {
	r.rows = nil
	r.current = -1
}

func (r *Result) currentRow() Row {
	if r.current >= 0 && r.current < len(r.rows) {
		return r.rows[r.current]
	}
	return Row{}
}
