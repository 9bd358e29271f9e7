// Package vcf provides VCF record parsing and header field discovery.
package vcf

// InfoField is a single key[=value] entry from a record's INFO column.
// Flag entries (no "=") carry Flag=true and an empty Value.
type InfoField struct {
	Key   string
	Value string
	Flag  bool
}

// Record represents a single variant call line from a VCF file.
//
// QUAL is kept as its raw text rather than a parsed float so that the
// record can be reproduced byte-for-byte; the table layer decides how to
// type it from the observed values.
type Record struct {
	Chrom  string      // Chromosome name (e.g., "12", "chr12")
	Pos    int64       // 1-based genomic position
	ID     string      // Variant identifier (e.g., rs ID), "." when absent
	Ref    string      // Reference allele
	Alt    string      // Alternate allele(s)
	Qual   string      // Raw quality score text, "." when absent
	Filter string      // Filter status (PASS or filter name)
	Info   []InfoField // INFO entries in original order
	Format string      // Raw colon-delimited FORMAT field list, "" when absent
	Sample string      // Raw colon-delimited first-sample values, "" when absent
}

// InfoGet returns the value of the named INFO key and whether the key is
// present. Flag keys are present with an empty value.
func (r *Record) InfoGet(key string) (string, bool) {
	for _, f := range r.Info {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// HasInfoFlag reports whether the named INFO key is present as a bare flag.
func (r *Record) HasInfoFlag(key string) bool {
	for _, f := range r.Info {
		if f.Key == key {
			return f.Flag
		}
	}
	return false
}

// NormalizeChrom returns the chromosome name without the "chr" prefix.
func (r *Record) NormalizeChrom() string {
	if len(r.Chrom) > 3 && r.Chrom[:3] == "chr" {
		return r.Chrom[3:]
	}
	return r.Chrom
}
