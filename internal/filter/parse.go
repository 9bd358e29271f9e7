// Package filter parses free-text filter expressions and partitions a
// variant table into retained and excluded row sets.
package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// operators lists the comparison operator literals in match order. The
// two-character operators come first so that "<=" is never tokenized as
// "<" followed by "=value".
var operators = []string{"==", "!=", "<=", ">=", "<", ">"}

// operatorChars are the characters that may start an operator; a column
// name is the longest prefix free of them.
const operatorChars = "=!<>"

// Predicate is a single parsed filter condition.
type Predicate struct {
	Column string
	Op     string
	Raw    string // literal text exactly as written
	Value  any    // int64, float64 or string per numeric-first parsing
}

func (p Predicate) String() string {
	return p.Column + p.Op + p.Raw
}

// Spec is an ordered list of predicates combined with logical AND.
// Evaluation order does not affect the result; parse order is preserved
// for diagnostics.
type Spec []Predicate

// MalformedFilterExpressionError reports filter text that does not match
// the <column><operator><value> grammar.
type MalformedFilterExpressionError struct {
	Expr string
}

func (e *MalformedFilterExpressionError) Error() string {
	return fmt.Sprintf("malformed filter expression %q: expected <column><operator><value>", e.Expr)
}

// Parse parses filter expressions into a Spec, preserving input order.
// A single malformed expression fails the whole parse; no partial spec
// is returned.
func Parse(exprs []string) (Spec, error) {
	spec := make(Spec, 0, len(exprs))
	for _, expr := range exprs {
		p, err := ParseExpression(expr)
		if err != nil {
			return nil, err
		}
		spec = append(spec, p)
	}
	return spec, nil
}

// ParseExpression parses a single <column><operator><value> expression.
// No whitespace is required around the operator; the value is parsed
// numeric-first (int, then float, else kept as a string).
func ParseExpression(expr string) (Predicate, error) {
	for i := 0; i < len(expr); i++ {
		if !strings.ContainsRune(operatorChars, rune(expr[i])) {
			continue
		}
		for _, op := range operators {
			if !strings.HasPrefix(expr[i:], op) {
				continue
			}
			column := expr[:i]
			value := expr[i+len(op):]
			if column == "" || value == "" {
				return Predicate{}, &MalformedFilterExpressionError{Expr: expr}
			}
			return Predicate{
				Column: column,
				Op:     op,
				Raw:    value,
				Value:  parseLiteral(value),
			}, nil
		}
	}
	return Predicate{}, &MalformedFilterExpressionError{Expr: expr}
}

// parseLiteral attempts int, then float, else keeps the string.
func parseLiteral(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
