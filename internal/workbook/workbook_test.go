package workbook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varbook/varbook/internal/filter"
	"github.com/varbook/varbook/internal/table"
)

func testTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New([]table.Column{
		{Name: "CHROM", Kind: table.KindString, Values: []any{"chr1", "chr2"}},
		{Name: "DP", Kind: table.KindNumeric, Values: []any{"10", table.Missing}},
		{Name: "DB", Kind: table.KindBool, Values: []any{true, table.Missing}},
	})
	require.NoError(t, err)
	return tbl
}

func TestTabWriter_WriteTable(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTabWriter(&buf)

	require.NoError(t, tw.WriteTable(testTable(t)))
	require.NoError(t, tw.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "#CHROM\tDP\tDB", lines[0])
	assert.Equal(t, "chr1\t10\ttrue", lines[1])
	assert.Equal(t, "chr2\t.\t.", lines[2])
}

func TestSheetSet_AddPartitionKeep(t *testing.T) {
	tbl := testTable(t)
	res := &filter.Result{
		Retained: tbl.Subset([]int{0}),
		Excluded: tbl.Subset([]int{1}),
	}

	s := NewSheetSet()
	s.AddPartition("variants", res, true)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"variants", ExcludedSheetName}, s.Names())
	assert.Equal(t, 1, s.Tables()[0].NumRows())
	assert.Equal(t, 1, s.Tables()[1].NumRows())
}

func TestSheetSet_AddPartitionDiscard(t *testing.T) {
	tbl := testTable(t)
	res := &filter.Result{
		Retained: tbl.Subset([]int{0}),
		Excluded: tbl.Subset([]int{1}),
	}

	s := NewSheetSet()
	s.AddPartition("variants", res, false)

	require.Equal(t, 1, s.Len())
	assert.Equal(t, []string{"variants"}, s.Names())
}

func TestTabWriter_WriteSheetSet(t *testing.T) {
	tbl := testTable(t)

	s := NewSheetSet()
	s.Add("variants", tbl.Subset([]int{0}))
	s.Add(ExcludedSheetName, tbl.Subset([]int{1}))

	var buf bytes.Buffer
	tw := NewTabWriter(&buf)
	require.NoError(t, tw.WriteSheetSet(s))
	require.NoError(t, tw.Flush())

	out := buf.String()
	assert.Contains(t, out, "## sheet: variants\n")
	assert.Contains(t, out, "## sheet: filtered\n")
	assert.Less(t, strings.Index(out, "variants"), strings.Index(out, "filtered"))
}
