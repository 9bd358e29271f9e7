// Package table implements the wide, column-oriented variant table built
// from packed VCF fields, and the splitter that produces it.
package table

import (
	"fmt"
	"strconv"
)

// Kind is the resolved type family of a column, discovered from the
// observed values during the schema pass.
type Kind int

const (
	KindString Kind = iota
	KindNumeric
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBool:
		return "boolean"
	default:
		return "string"
	}
}

// missing is the sentinel type for absent cells.
type missing struct{}

// Missing marks a cell with no observed value. It is distinct from the
// empty string and from boolean false.
var Missing = missing{}

// IsMissing reports whether v is the missing cell marker.
func IsMissing(v any) bool {
	_, ok := v.(missing)
	return ok
}

// Column is one named, typed column of cell values. Values hold the raw
// observed strings (or bool for INFO flags, or Missing); Kind drives
// comparison and export, never re-rendering, so packed fields can be
// reproduced byte-for-byte.
type Column struct {
	Name   string
	Kind   Kind
	Values []any
}

// Table is an ordered collection of equal-length columns.
type Table struct {
	cols    []Column
	index   map[string]int
	nrows   int
	renames map[string]string // canonical FORMAT field -> resolved column name
}

// New creates a table from the given columns. All columns must have equal
// length and unique names.
func New(cols []Column) (*Table, error) {
	t := &Table{
		cols:  cols,
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		t.index[c.Name] = i
		if i == 0 {
			t.nrows = len(c.Values)
		} else if len(c.Values) != t.nrows {
			return nil, fmt.Errorf("column %q has %d values, want %d", c.Name, len(c.Values), t.nrows)
		}
	}
	return t, nil
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	return t.nrows
}

// ColumnNames returns the resolved column names in schema order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the named column exists in the schema.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Kind returns the resolved type family of the named column.
func (t *Table) Kind(name string) (Kind, bool) {
	i, ok := t.index[name]
	if !ok {
		return KindString, false
	}
	return t.cols[i].Kind, true
}

// Value returns the cell at (column, row). The second return is false when
// the column does not exist or the row is out of range.
func (t *Table) Value(name string, row int) (any, bool) {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= t.nrows {
		return nil, false
	}
	return t.cols[i].Values[row], true
}

// DisplayName returns the resolved column name for a canonical FORMAT
// field name, accounting for collision suffixing. Names that were never
// renamed resolve to themselves.
func (t *Table) DisplayName(canonical string) string {
	if r, ok := t.renames[canonical]; ok {
		return r
	}
	return canonical
}

// Renames returns the canonical-to-resolved name mapping applied to
// FORMAT-derived columns that collided with existing columns.
func (t *Table) Renames() map[string]string {
	out := make(map[string]string, len(t.renames))
	for k, v := range t.renames {
		out[k] = v
	}
	return out
}

// Subset returns a new table containing the given rows in the given order.
// The schema, kinds and rename mapping are preserved; the source table is
// not modified.
func (t *Table) Subset(rows []int) *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		vals := make([]any, len(rows))
		for j, r := range rows {
			vals[j] = c.Values[r]
		}
		cols[i] = Column{Name: c.Name, Kind: c.Kind, Values: vals}
	}

	sub := &Table{
		cols:    cols,
		index:   make(map[string]int, len(cols)),
		nrows:   len(rows),
		renames: t.renames,
	}
	for i, c := range cols {
		sub.index[c.Name] = i
	}
	return sub
}

// CellString renders a cell for presentation: Missing as ".", flags as
// "true"/"false", everything else as its raw text.
func CellString(v any) string {
	switch t := v.(type) {
	case missing:
		return "."
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
