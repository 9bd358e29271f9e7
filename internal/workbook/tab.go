package workbook

import (
	"bufio"
	"io"
	"strings"

	"github.com/varbook/varbook/internal/table"
)

// TabWriter writes tables in tab-delimited format, one header row of
// resolved column names followed by one line per row, with missing cells
// rendered as ".".
type TabWriter struct {
	w *bufio.Writer
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

// WriteTable writes the header line and all rows of a single table.
func (tw *TabWriter) WriteTable(t *table.Table) error {
	names := t.ColumnNames()
	if _, err := tw.w.WriteString("#" + strings.Join(names, "\t") + "\n"); err != nil {
		return err
	}

	cells := make([]string, len(names))
	for row := 0; row < t.NumRows(); row++ {
		for i, name := range names {
			v, _ := t.Value(name, row)
			cells[i] = table.CellString(v)
		}
		if _, err := tw.w.WriteString(strings.Join(cells, "\t") + "\n"); err != nil {
			return err
		}
	}

	return nil
}

// WriteSheetSet writes every sheet in order, each preceded by a comment
// line naming it and separated by a blank line.
func (tw *TabWriter) WriteSheetSet(s *SheetSet) error {
	names := s.Names()
	tables := s.Tables()

	for i, name := range names {
		if i > 0 {
			if _, err := tw.w.WriteString("\n"); err != nil {
				return err
			}
		}
		if _, err := tw.w.WriteString("## sheet: " + name + "\n"); err != nil {
			return err
		}
		if err := tw.WriteTable(tables[i]); err != nil {
			return err
		}
	}

	return nil
}

// Flush writes any buffered output to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
