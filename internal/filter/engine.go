package filter

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/varbook/varbook/internal/table"
)

// UnknownFilterColumnError reports a predicate referencing a column that
// is not in the table schema. It is fatal for the whole evaluation.
type UnknownFilterColumnError struct {
	Column string
}

func (e *UnknownFilterColumnError) Error() string {
	return fmt.Sprintf("unknown filter column %q", e.Column)
}

// Result holds the two row partitions produced by Apply. Retained and
// Excluded are row-disjoint and their ordered union equals the input.
type Result struct {
	Retained *table.Table
	Excluded *table.Table
}

// Engine evaluates a filter spec against a table. The input table is
// never mutated, so independent evaluations over the same table are safe
// to run concurrently.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a filter engine.
func NewEngine() *Engine {
	return &Engine{logger: zap.NewNop()}
}

// SetLogger sets the logger for evaluation progress messages.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Apply partitions the table's rows: a row is retained iff it satisfies
// every predicate in the spec, excluded iff it fails at least one.
// Every predicate column is validated against the schema before any row
// is evaluated, so a spec naming an unknown column filters nothing.
func (e *Engine) Apply(t *table.Table, spec Spec) (*Result, error) {
	for _, p := range spec {
		if !t.HasColumn(p.Column) {
			return nil, &UnknownFilterColumnError{Column: p.Column}
		}
	}

	var retained, excluded []int
	for row := 0; row < t.NumRows(); row++ {
		if satisfiesAll(t, spec, row) {
			retained = append(retained, row)
		} else {
			excluded = append(excluded, row)
		}
	}

	e.logger.Debug("applied filter spec",
		zap.Int("predicates", len(spec)),
		zap.Int("retained", len(retained)),
		zap.Int("excluded", len(excluded)),
	)

	return &Result{
		Retained: t.Subset(retained),
		Excluded: t.Subset(excluded),
	}, nil
}

func satisfiesAll(t *table.Table, spec Spec, row int) bool {
	for _, p := range spec {
		if !satisfies(t, p, row) {
			return false
		}
	}
	return true
}

// satisfies evaluates one predicate against one row. The comparison type
// follows the column's discovered type family, not the literal's own
// parseability. A missing cell, or a cell or literal that cannot be
// coerced to the column's family, satisfies the predicate: missing data
// never excludes a row by itself.
func satisfies(t *table.Table, p Predicate, row int) bool {
	v, ok := t.Value(p.Column, row)
	if !ok || table.IsMissing(v) {
		return true
	}

	kind, _ := t.Kind(p.Column)
	switch kind {
	case table.KindNumeric:
		cell, err := cellFloat(v)
		if err != nil {
			return true
		}
		lit, err := literalFloat(p)
		if err != nil {
			return true
		}
		return compareFloats(cell, p.Op, lit)

	case table.KindBool:
		cell, isBool := v.(bool)
		if !isBool {
			return true
		}
		lit, err := strconv.ParseBool(p.Raw)
		if err != nil {
			return true
		}
		return compareBools(cell, p.Op, lit)

	default:
		return compareStrings(table.CellString(v), p.Op, p.Raw)
	}
}

func cellFloat(v any) (float64, error) {
	s, isString := v.(string)
	if !isString {
		return 0, fmt.Errorf("cell is not numeric text")
	}
	return strconv.ParseFloat(s, 64)
}

func literalFloat(p Predicate) (float64, error) {
	switch t := p.Value.(type) {
	case int64:
		return float64(t), nil
	case float64:
		return t, nil
	default:
		return strconv.ParseFloat(p.Raw, 64)
	}
}

func compareFloats(a float64, op string, b float64) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return true
}

func compareStrings(a, op, b string) bool {
	c := strings.Compare(a, b)
	switch op {
	case "==":
		return c == 0
	case "!=":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return true
}

// compareBools supports the equality operators on flag columns; ordering
// operators cannot coerce and default to satisfied.
func compareBools(a bool, op string, b bool) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	}
	return true
}
