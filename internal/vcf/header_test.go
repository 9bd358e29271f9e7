package vcf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vepHeader = `##fileformat=VCFv4.2
##INFO=<ID=DP,Number=1,Type=Integer,Description="Approximate read depth">
##INFO=<ID=AF,Number=A,Type=Float,Description="Allele Frequency">
##INFO=<ID=DB,Number=0,Type=Flag,Description="dbSNP membership">
##INFO=<ID=CSQ,Number=.,Type=String,Description="Consequence annotations from Ensembl VEP. Format: Allele|Consequence|SYMBOL|gnomAD_AF">
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
##FORMAT=<ID=DP,Number=1,Type=Integer,Description="Read depth at this position">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	SAMPLE1
`

func headerParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParserFromReader(strings.NewReader(vepHeader))
	require.NoError(t, err)
	return p
}

func TestAnnotationFields(t *testing.T) {
	p := headerParser(t)

	fields := p.AnnotationFields("CSQ")
	assert.Equal(t, []string{"Allele", "Consequence", "SYMBOL", "gnomAD_AF"}, fields)
}

func TestAnnotationFields_UndeclaredKey(t *testing.T) {
	p := headerParser(t)

	assert.Nil(t, p.AnnotationFields("ANN"))
}

func TestAnnotationFields_NoFormatClause(t *testing.T) {
	in := "##INFO=<ID=CSQ,Number=.,Type=String,Description=\"Consequence annotations\">\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"
	p, err := NewParserFromReader(strings.NewReader(in))
	require.NoError(t, err)

	assert.Nil(t, p.AnnotationFields("CSQ"))
}

func TestHeaderTypes(t *testing.T) {
	p := headerParser(t)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"info integer", p.InfoType("DP"), "Integer"},
		{"info float", p.InfoType("AF"), "Float"},
		{"info flag", p.InfoType("DB"), "Flag"},
		{"info undeclared", p.InfoType("XYZ"), ""},
		{"format string", p.FormatType("GT"), "String"},
		{"format integer", p.FormatType("DP"), "Integer"},
		{"format undeclared", p.FormatType("AD"), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got, tt.name)
	}
}
