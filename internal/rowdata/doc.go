// Package rowdata loads and models the delimited row data driving a merge.
//
// The first record of the input is the header; every later record becomes a
// Row of string values keyed by the case-folded column name, so merge-field
// placeholders match columns case-insensitively. Rows whose columns are all
// empty are dropped with a warning rather than failing the run. Proof
// sampling reduces a set to a small verification subset, optionally grouped
// by a variable-template column.
package rowdata
