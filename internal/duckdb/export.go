package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/varbook/varbook/internal/table"
)

// WriteSheet exports a table under the given sheet name, replacing any
// previous export of the same name. The SQL schema is generated from the
// table's resolved column names and kinds; rows are written with the
// DuckDB appender.
func (s *Store) WriteSheet(name string, t *table.Table) error {
	names := t.ColumnNames()
	if len(names) == 0 {
		return fmt.Errorf("sheet %q has no columns", name)
	}

	defs := make([]string, len(names))
	for i, n := range names {
		kind, _ := t.Kind(n)
		defs[i] = quoteIdent(n) + " " + sqlType(kind)
	}

	if _, err := s.db.Exec("DROP TABLE IF EXISTS " + quoteIdent(name)); err != nil {
		return fmt.Errorf("drop sheet table: %w", err)
	}
	ddl := "CREATE TABLE " + quoteIdent(name) + " (" + strings.Join(defs, ", ") + ")"
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create sheet table: %w", err)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", name)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	row := make([]driver.Value, len(names))
	for r := 0; r < t.NumRows(); r++ {
		for i, n := range names {
			v, _ := t.Value(n, r)
			kind, _ := t.Kind(n)
			row[i] = sqlValue(v, kind)
		}
		if err := appender.AppendRow(row...); err != nil {
			return fmt.Errorf("append row to sheet %q: %w", name, err)
		}
	}

	return appender.Flush()
}

// sqlType maps a column kind to a DuckDB column type.
func sqlType(k table.Kind) string {
	switch k {
	case table.KindNumeric:
		return "DOUBLE"
	case table.KindBool:
		return "BOOLEAN"
	default:
		return "VARCHAR"
	}
}

// sqlValue converts a cell to its SQL representation. Missing cells and
// cells that cannot be coerced to the column type become NULL.
func sqlValue(v any, k table.Kind) driver.Value {
	if table.IsMissing(v) {
		return nil
	}

	switch k {
	case table.KindNumeric:
		s, ok := v.(string)
		if !ok {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return f
	case table.KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil
		}
		return b
	default:
		return table.CellString(v)
	}
}

// quoteIdent quotes a SQL identifier; resolved column names may contain
// spaces (e.g. the " (FMT)" collision suffix).
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
