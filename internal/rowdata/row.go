package rowdata

import (
	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// FoldName normalizes a column or placeholder name for case-insensitive
// matching.
func FoldName(name string) string {
	return fold.String(name)
}

// NewRow builds a row from a value map, folding the keys. Loaders and tests
// use it; merged output never mutates a row.
func NewRow(ordinal int, values map[string]string) Row {
	columns := make(map[string]string, len(values))
	for name, value := range values {
		columns[FoldName(name)] = value
	}
	return Row{Ordinal: ordinal, columns: columns}
}

// Row is one record of the input data. Column keys are case-folded at load
// time; values are immutable once loaded.
type Row struct {
	// Ordinal is the 1-based position of the row in the source file, header
	// excluded. Diagnostics only.
	Ordinal int

	columns map[string]string
}

// Value looks up a column by name, folding the name first.
func (r Row) Value(name string) (string, bool) {
	value, ok := r.columns[FoldName(name)]
	return value, ok
}

// Empty reports whether every column value is empty.
func (r Row) Empty() bool {
	for _, value := range r.columns {
		if value != "" {
			return false
		}
	}
	return true
}

// Set is an ordered collection of rows sharing one header.
type Set struct {
	// Columns holds the case-folded header names in source order.
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}
