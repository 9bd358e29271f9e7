package vcf

import "strings"

// AnnotationFields returns the ordered sub-field names declared for the
// given nested annotation INFO key (typically "CSQ"). VEP and similar
// annotators declare the pipe-delimited layout in the header, e.g.:
//
//	##INFO=<ID=CSQ,Number=.,Type=String,Description="Consequence annotations
//	from Ensembl VEP. Format: Allele|Consequence|...|gnomAD_AF">
//
// Returns nil if the key is not declared or carries no Format clause.
func (p *Parser) AnnotationFields(key string) []string {
	prefix := "##INFO=<ID=" + key + ","
	for _, line := range p.header {
		if strings.HasPrefix(line, prefix) {
			return parseFormatClause(line)
		}
	}
	return nil
}

// parseFormatClause extracts the pipe-delimited field names from the
// "Format: ..." clause of an INFO header Description.
func parseFormatClause(line string) []string {
	idx := strings.Index(line, "Format: ")
	if idx < 0 {
		return nil
	}

	spec := line[idx+len("Format: "):]

	// The clause runs to the closing quote of the Description attribute.
	if end := strings.IndexAny(spec, `">`); end >= 0 {
		spec = spec[:end]
	}

	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}

	return strings.Split(spec, "|")
}

// InfoType returns the declared Type of an INFO key from the header
// (e.g. "Integer", "Float", "Flag", "String"), or "" if undeclared.
// The table layer uses this only as a hint; observed values win.
func (p *Parser) InfoType(key string) string {
	return headerType(p.header, "##INFO=<ID="+key+",")
}

// FormatType returns the declared Type of a FORMAT field from the header,
// or "" if undeclared.
func (p *Parser) FormatType(field string) string {
	return headerType(p.header, "##FORMAT=<ID="+field+",")
}

func headerType(header []string, prefix string) string {
	for _, line := range header {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		idx := strings.Index(line, "Type=")
		if idx < 0 {
			return ""
		}
		rest := line[idx+len("Type="):]
		if end := strings.IndexAny(rest, ",>"); end >= 0 {
			rest = rest[:end]
		}
		return rest
	}
	return ""
}
