// Package records holds the in-memory row model shared by every pipeline
// stage. A Record is keyed by column name; a nil cell is the missing marker.
package records

import "time"

// LineKey stores the 1-based source line of a row. It is not a data column and
// is never written to output artifacts.
const LineKey = "__line"

// Record is one row of the customer table.
type Record map[string]any

// IsMissing reports whether v is the missing marker.
func IsMissing(v any) bool { return v == nil }

// Missing reports whether column col is absent or holds the missing marker.
func (r Record) Missing(col string) bool {
	v, ok := r[col]
	return !ok || v == nil
}

// Float returns the float64 stored in col.
func (r Record) Float(col string) (float64, bool) {
	switch v := r[col].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Int returns the int stored in col.
func (r Record) Int(col string) (int, bool) {
	v, ok := r[col].(int)
	return v, ok
}

// Time returns the time.Time stored in col.
func (r Record) Time(col string) (time.Time, bool) {
	v, ok := r[col].(time.Time)
	return v, ok
}

// String returns the string stored in col.
func (r Record) String(col string) (string, bool) {
	v, ok := r[col].(string)
	return v, ok
}

// Bool returns the bool stored in col; missing or non-bool cells are false.
func (r Record) Bool(col string) bool {
	v, _ := r[col].(bool)
	return v
}

// Line returns the source line recorded by the loader, or 0.
func (r Record) Line() int {
	v, _ := r[LineKey].(int)
	return v
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is a fully materialized record set plus its column order.
type Table struct {
	Columns []string
	Rows    []Record
}

// HasColumn reports whether name is one of t's columns.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AppendColumns adds any of names not already present, preserving order.
func (t *Table) AppendColumns(names ...string) {
	for _, n := range names {
		if !t.HasColumn(n) {
			t.Columns = append(t.Columns, n)
		}
	}
}
