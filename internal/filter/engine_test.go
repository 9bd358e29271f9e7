package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varbook/varbook/internal/table"
)

// testTable builds the worked example table: DP=[10,45,50], QUAL=[50,250,10].
func testTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New([]table.Column{
		{Name: "CHROM", Kind: table.KindString, Values: []any{"chr1", "chr2", "chr17"}},
		{Name: "DP", Kind: table.KindNumeric, Values: []any{"10", "45", "50"}},
		{Name: "QUAL", Kind: table.KindNumeric, Values: []any{"50", "250", "10"}},
		{Name: "Consequence", Kind: table.KindString, Values: []any{
			"missense_variant", "synonymous_variant", "synonymous_variant",
		}},
		{Name: "gnomAD_AF", Kind: table.KindNumeric, Values: []any{"0.01", table.Missing, "0.5"}},
		{Name: "DB", Kind: table.KindBool, Values: []any{true, table.Missing, true}},
	})
	require.NoError(t, err)
	return tbl
}

func mustParse(t *testing.T, exprs ...string) Spec {
	t.Helper()
	spec, err := Parse(exprs)
	require.NoError(t, err)
	return spec
}

func column(t *testing.T, tbl *table.Table, name string) []any {
	t.Helper()
	out := make([]any, tbl.NumRows())
	for i := range out {
		v, ok := tbl.Value(name, i)
		require.True(t, ok)
		out[i] = v
	}
	return out
}

// The worked example: DP>30 AND QUAL<200 retains only the (DP=50, QUAL=10)
// row; the other two rows go to excluded.
func TestApply_TwoFiltersDifferentColumns(t *testing.T) {
	res, err := NewEngine().Apply(testTable(t), mustParse(t, "DP>30", "QUAL<200"))
	require.NoError(t, err)

	require.Equal(t, 1, res.Retained.NumRows())
	assert.Equal(t, []any{"50"}, column(t, res.Retained, "DP"))
	assert.Equal(t, []any{"10"}, column(t, res.Retained, "QUAL"))

	require.Equal(t, 2, res.Excluded.NumRows())
	assert.Equal(t, []any{"10", "45"}, column(t, res.Excluded, "DP"))
}

func TestApply_SingleFilter(t *testing.T) {
	res, err := NewEngine().Apply(testTable(t), mustParse(t, "DP>30"))
	require.NoError(t, err)

	assert.Equal(t, []any{"45", "50"}, column(t, res.Retained, "DP"))
	assert.Equal(t, []any{"10"}, column(t, res.Excluded, "DP"))
}

func TestApply_TwoFiltersSameColumn(t *testing.T) {
	res, err := NewEngine().Apply(testTable(t),
		mustParse(t, "Consequence!=synonymous_variant", "Consequence!=missense_variant"))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Retained.NumRows())
	assert.Equal(t, 3, res.Excluded.NumRows())
}

// Every input row lands in exactly one partition, order preserved.
func TestApply_LosslessPartition(t *testing.T) {
	tbl := testTable(t)

	specs := []Spec{
		nil,
		mustParse(t, "DP>30"),
		mustParse(t, "DP>30", "QUAL<200"),
		mustParse(t, "Consequence==synonymous_variant"),
		mustParse(t, "DP>0"),
		mustParse(t, "DP<0"),
	}

	for _, spec := range specs {
		res, err := NewEngine().Apply(tbl, spec)
		require.NoError(t, err)

		assert.Equal(t, tbl.NumRows(), res.Retained.NumRows()+res.Excluded.NumRows())

		// Order-preserving union over a unique column
		var union []any
		union = append(union, column(t, res.Retained, "DP")...)
		union = append(union, column(t, res.Excluded, "DP")...)
		assert.ElementsMatch(t, column(t, tbl, "DP"), union)
	}

	// The input table itself is never mutated
	assert.Equal(t, 3, tbl.NumRows())
}

// A missing value never causes exclusion by itself.
func TestApply_MissingValuePassesThrough(t *testing.T) {
	for _, expr := range []string{"gnomAD_AF<0.02", "gnomAD_AF>=0.02", "gnomAD_AF==0.5"} {
		res, err := NewEngine().Apply(testTable(t), mustParse(t, expr))
		require.NoError(t, err)

		// Row 1 has a missing gnomAD_AF and must always be retained
		v, ok := res.Retained.Value("gnomAD_AF", findRow(t, res.Retained, "CHROM", "chr2"))
		require.True(t, ok)
		assert.True(t, table.IsMissing(v), "filter %s excluded the missing-value row", expr)
	}
}

func findRow(t *testing.T, tbl *table.Table, column, want string) int {
	t.Helper()
	for i := 0; i < tbl.NumRows(); i++ {
		if v, _ := tbl.Value(column, i); v == want {
			return i
		}
	}
	t.Fatalf("no row with %s=%s", column, want)
	return -1
}

// Comparison type follows the column's discovered family, not the
// literal's own parseability.
func TestApply_CoercionFollowsColumnKind(t *testing.T) {
	tbl, err := table.New([]table.Column{
		// All-numeric chromosome labels resolve to a numeric column
		{Name: "CHROM", Kind: table.KindNumeric, Values: []any{"5", "17"}},
		// Zero-padded labels force the string family
		{Name: "LABEL", Kind: table.KindString, Values: []any{"05", "17"}},
	})
	require.NoError(t, err)

	// Numeric column: "CHROM==5" matches the cell "5" numerically
	res, err := NewEngine().Apply(tbl, mustParse(t, "CHROM==5"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Retained.NumRows())

	// String column: "LABEL==5" does not match "05" lexically
	res, err = NewEngine().Apply(tbl, mustParse(t, "LABEL==5"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Retained.NumRows())

	// String ordering is lexical, not numeric
	res, err = NewEngine().Apply(tbl, mustParse(t, "LABEL<2"))
	require.NoError(t, err)
	assert.Equal(t, []any{"05", "17"}, column(t, res.Retained, "LABEL"))
}

// A literal that cannot be coerced to the column family satisfies the
// predicate rather than excluding rows.
func TestApply_UncoercibleLiteralPasses(t *testing.T) {
	res, err := NewEngine().Apply(testTable(t), mustParse(t, "DP>abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Retained.NumRows())
}

func TestApply_BoolColumn(t *testing.T) {
	res, err := NewEngine().Apply(testTable(t), mustParse(t, "DB==true"))
	require.NoError(t, err)

	// Both flagged rows match; the missing row passes through
	assert.Equal(t, 3, res.Retained.NumRows())

	res, err = NewEngine().Apply(testTable(t), mustParse(t, "DB!=true"))
	require.NoError(t, err)
	assert.Equal(t, []any{"chr2"}, column(t, res.Retained, "CHROM"))
}

func TestApply_UnknownColumn(t *testing.T) {
	res, err := NewEngine().Apply(testTable(t), mustParse(t, "DP>30", "NOPE==1"))
	require.Error(t, err)
	assert.Nil(t, res, "no partial filtering on schema errors")

	var unknown *UnknownFilterColumnError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "NOPE", unknown.Column)
	assert.Contains(t, err.Error(), "NOPE")
}

func TestApply_EmptySpecRetainsEverything(t *testing.T) {
	res, err := NewEngine().Apply(testTable(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Retained.NumRows())
	assert.Equal(t, 0, res.Excluded.NumRows())
}
