// Package workbook tracks named result tables and renders them for
// review as tab-delimited output.
package workbook

import (
	"github.com/varbook/varbook/internal/filter"
	"github.com/varbook/varbook/internal/table"
)

// ExcludedSheetName is the result-set name given to the preserved
// excluded partition when keep mode is enabled.
const ExcludedSheetName = "filtered"

// SheetSet is an ordered list of named result tables. Names and tables
// stay parallel; the order reflects insertion order.
type SheetSet struct {
	names  []string
	tables []*table.Table
}

// NewSheetSet creates an empty sheet set.
func NewSheetSet() *SheetSet {
	return &SheetSet{}
}

// Add appends a named table.
func (s *SheetSet) Add(name string, t *table.Table) {
	s.names = append(s.names, name)
	s.tables = append(s.tables, t)
}

// AddPartition records a filter result: the retained rows under name
// and, when keep is set, the excluded rows under the "filtered" sheet
// name. When keep is unset the excluded partition is dropped.
func (s *SheetSet) AddPartition(name string, res *filter.Result, keep bool) {
	s.Add(name, res.Retained)
	if keep {
		s.Add(ExcludedSheetName, res.Excluded)
	}
}

// Names returns the sheet names in order.
func (s *SheetSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Tables returns the sheet tables in order.
func (s *SheetSet) Tables() []*table.Table {
	return append([]*table.Table(nil), s.tables...)
}

// Len returns the number of sheets.
func (s *SheetSet) Len() int {
	return len(s.names)
}
