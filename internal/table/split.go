package table

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/varbook/varbook/internal/vcf"
)

const (
	// FormatSuffix disambiguates a FORMAT-derived column whose name
	// collides with an existing INFO or annotation column.
	FormatSuffix = " (FMT)"

	// AnnotationPrefix namespaces expanded annotation sub-field columns
	// so a nested name (e.g. gnomAD_AF) cannot collide with a top-level
	// INFO key of the same short name.
	AnnotationPrefix = "CSQ_"

	// DefaultAnnotationKey is the INFO key that carries nested
	// per-transcript annotation groups.
	DefaultAnnotationKey = "CSQ"
)

// fixedColumns are the VCF positional fields present in every table.
var fixedColumns = [...]string{"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER"}

// TypeHinter supplies declared header types for INFO keys and FORMAT
// fields ("Integer", "Float", "Flag", "String"). Hints only decide the
// kind of columns with no observed values; observed values always win.
type TypeHinter interface {
	InfoType(key string) string
	FormatType(field string) string
}

// Splitter expands packed INFO, nested annotation and FORMAT/SAMPLE
// fields from VCF records into the wide table schema.
//
// The build is two-pass: the first pass scans every record to discover
// the full column set (the schema is the union across all records), the
// second pass fills fixed-width rows, expanding one row per annotation
// group. Every record contributes a value or the Missing marker to every
// column.
type Splitter struct {
	annotationKey    string
	annotationFields []string
	hints            TypeHinter
	logger           *zap.Logger
}

// NewSplitter creates a splitter. annotationFields is the ordered
// sub-field name list declared in the VCF header for the nested
// annotation key; pass nil to leave that key unexpanded.
func NewSplitter(annotationFields []string) *Splitter {
	return &Splitter{
		annotationKey:    DefaultAnnotationKey,
		annotationFields: annotationFields,
		logger:           zap.NewNop(),
	}
}

// SetAnnotationKey overrides the INFO key holding nested annotations.
func (s *Splitter) SetAnnotationKey(key string) {
	s.annotationKey = key
}

// SetTypeHints sets the header type declarations consulted for columns
// that never carry an observed value.
func (s *Splitter) SetTypeHints(h TypeHinter) {
	s.hints = h
}

// SetLogger sets the logger for warning messages.
func (s *Splitter) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Split builds the wide table from the given records.
func (s *Splitter) Split(records []*vcf.Record) (*Table, error) {
	expand := len(s.annotationFields) > 0

	// First pass: discover INFO keys and FORMAT fields in first-seen order.
	var infoKeys, fmtFields []string
	infoSeen := make(map[string]bool)
	fmtSeen := make(map[string]bool)

	for _, r := range records {
		for _, f := range r.Info {
			if expand && f.Key == s.annotationKey {
				continue
			}
			if !infoSeen[f.Key] {
				infoSeen[f.Key] = true
				infoKeys = append(infoKeys, f.Key)
			}
		}
		if r.Format != "" {
			for _, name := range strings.Split(r.Format, ":") {
				if !fmtSeen[name] {
					fmtSeen[name] = true
					fmtFields = append(fmtFields, name)
				}
			}
		}
	}

	// Assemble the schema: fixed fields, INFO keys, annotation sub-fields,
	// then FORMAT fields with collision suffixing.
	var names []string
	taken := make(map[string]bool)
	add := func(name string) {
		taken[name] = true
		names = append(names, name)
	}

	for _, n := range fixedColumns {
		add(n)
	}
	for _, k := range infoKeys {
		add(k)
	}
	if expand {
		for _, f := range s.annotationFields {
			add(AnnotationPrefix + f)
		}
	}

	renames := make(map[string]string)
	for _, f := range fmtFields {
		name := f
		if taken[name] {
			name = f + FormatSuffix
			renames[f] = name
		}
		add(name)
	}

	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n}
	}

	// Second pass: fill rows, expanding one row per annotation group.
	for _, r := range records {
		base := make([]any, len(names))
		for i := range base {
			base[i] = Missing
		}

		s.fillFixed(base, index, r)
		for _, f := range r.Info {
			if expand && f.Key == s.annotationKey {
				continue
			}
			if f.Flag {
				base[index[f.Key]] = true
			} else {
				base[index[f.Key]] = f.Value
			}
		}
		s.fillFormat(base, index, renames, r)

		groups := s.annotationGroups(r, expand)
		if len(groups) == 0 {
			appendRow(cols, base)
			continue
		}

		for _, g := range groups {
			row := make([]any, len(base))
			copy(row, base)
			parts := strings.Split(g, "|")
			for i, f := range s.annotationFields {
				if i < len(parts) {
					row[index[AnnotationPrefix+f]] = parts[i]
				}
			}
			appendRow(cols, row)
		}
	}

	// Resolve column kinds from observed values, falling back to header
	// type declarations for columns that stayed entirely missing.
	for i := range cols {
		cols[i].Kind = resolveKind(cols[i].Values)
		if allMissing(cols[i].Values) && s.hints != nil {
			cols[i].Kind = s.hintKind(cols[i].Name, infoSeen, renames)
		}
	}

	t, err := New(cols)
	if err != nil {
		return nil, fmt.Errorf("build table schema: %w", err)
	}
	t.renames = renames
	return t, nil
}

// fillFixed writes the VCF positional fields. QUAL "." means the score is
// absent and becomes the missing marker; other fields keep their raw text.
func (s *Splitter) fillFixed(row []any, index map[string]int, r *vcf.Record) {
	row[index["CHROM"]] = r.Chrom
	row[index["POS"]] = strconv.FormatInt(r.Pos, 10)
	row[index["ID"]] = r.ID
	row[index["REF"]] = r.Ref
	row[index["ALT"]] = r.Alt
	if r.Qual != "." && r.Qual != "" {
		row[index["QUAL"]] = r.Qual
	}
	row[index["FILTER"]] = r.Filter
}

// fillFormat aligns FORMAT field names with SAMPLE values positionally.
// A count mismatch is a data inconsistency: the available positions are
// aligned, the remainder stays missing, and a warning is logged.
func (s *Splitter) fillFormat(row []any, index map[string]int, renames map[string]string, r *vcf.Record) {
	if r.Format == "" {
		return
	}

	fields := strings.Split(r.Format, ":")
	var values []string
	if r.Sample != "" {
		values = strings.Split(r.Sample, ":")
	}

	if len(values) != len(fields) {
		s.logger.Warn("FORMAT/SAMPLE token count mismatch, aligning available positions",
			zap.String("chrom", r.Chrom),
			zap.Int64("pos", r.Pos),
			zap.Int("format_fields", len(fields)),
			zap.Int("sample_values", len(values)),
		)
	}

	for i, f := range fields {
		name := f
		if resolved, ok := renames[f]; ok {
			name = resolved
		}
		if i < len(values) {
			row[index[name]] = values[i]
		}
	}
}

// annotationGroups returns the comma-separated annotation groups of the
// record's nested annotation key, or nil when absent or not expanded.
func (s *Splitter) annotationGroups(r *vcf.Record, expand bool) []string {
	if !expand {
		return nil
	}
	value, ok := r.InfoGet(s.annotationKey)
	if !ok || value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func appendRow(cols []Column, row []any) {
	for i := range cols {
		cols[i].Values = append(cols[i].Values, row[i])
	}
}

// resolveKind discovers a column's type family from its values. "." cells
// are the VCF in-band missing convention and do not vote; a column whose
// non-missing values all parse numerically is numeric, flag-only columns
// are boolean, anything mixed is a string column.
func resolveKind(values []any) Kind {
	var sawNum, sawStr, sawBool bool
	for _, v := range values {
		switch t := v.(type) {
		case bool:
			sawBool = true
		case string:
			if t == "." {
				continue
			}
			if _, err := strconv.ParseFloat(t, 64); err == nil {
				sawNum = true
			} else {
				sawStr = true
			}
		}
	}

	switch {
	case sawStr, sawNum && sawBool:
		return KindString
	case sawBool:
		return KindBool
	case sawNum:
		return KindNumeric
	default:
		return KindString
	}
}

func allMissing(values []any) bool {
	for _, v := range values {
		if !IsMissing(v) {
			return false
		}
	}
	return true
}

// hintKind maps a declared header type to a column kind for columns that
// never carried a value.
func (s *Splitter) hintKind(name string, infoSeen map[string]bool, renames map[string]string) Kind {
	declared := ""
	if infoSeen[name] {
		declared = s.hints.InfoType(name)
	} else {
		field := strings.TrimSuffix(name, FormatSuffix)
		if renames[field] == name || field == name {
			declared = s.hints.FormatType(field)
		}
	}

	switch declared {
	case "Integer", "Float":
		return KindNumeric
	case "Flag":
		return KindBool
	default:
		return KindString
	}
}
