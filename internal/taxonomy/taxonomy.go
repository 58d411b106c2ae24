// Package taxonomy maps stored classification codes to their Russian display
// labels.
//
// Two taxonomies exist: one for bureaus (and the oversight unit) and one for
// expert panels. Both start from a common base; a unit-specific table
// replaces a common field's mapping wholesale rather than merging codes.
// The merged tables are built once at init and never mutated.
package taxonomy

import (
	"strings"

	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/unit"
)

// Taxonomy is a read-only field → code → label table.
type Taxonomy struct {
	fields map[record.Field]map[string]string
}

var (
	bureauTaxonomy = merge(commonTable, bureauTable)
	expertTaxonomy = merge(commonTable, expertTable)
)

func merge(base, specific map[record.Field]map[string]string) Taxonomy {
	out := make(map[record.Field]map[string]string, len(base)+len(specific))
	for f, codes := range base {
		out[f] = codes
	}
	for f, codes := range specific {
		out[f] = codes
	}
	return Taxonomy{fields: out}
}

// Resolve returns the taxonomy for a unit kind: the expert variant for
// expert panels, the bureau variant otherwise.
func Resolve(k unit.Kind) Taxonomy {
	if k == unit.ExpertPanel {
		return expertTaxonomy
	}
	return bureauTaxonomy
}

// Has reports whether the taxonomy maps field f.
func (t Taxonomy) Has(f record.Field) bool {
	_, ok := t.fields[f]
	return ok
}

// Label returns the label for a single code.
func (t Taxonomy) Label(f record.Field, code string) (string, bool) {
	label, ok := t.fields[f][code]
	return label, ok
}

// Codes returns the known codes of field f.
func (t Taxonomy) Codes(f record.Field) []string {
	codes := make([]string, 0, len(t.fields[f]))
	for c := range t.fields[f] {
		codes = append(codes, c)
	}
	return codes
}

// Render maps raw to display text. Unmapped fields and unknown codes pass
// through unchanged; set values are mapped per code and joined with ", ".
func (t Taxonomy) Render(f record.Field, raw string) string {
	if raw == "" {
		return ""
	}
	codes, ok := t.fields[f]
	if !ok {
		return raw
	}
	if !strings.Contains(raw, ",") {
		if label, ok := codes[raw]; ok {
			return label
		}
		return raw
	}
	return strings.Join(t.RenderCodes(f, raw), ", ")
}

// RenderCodes splits a comma-joined code set and maps each code, keeping
// order and unknown codes.
func (t Taxonomy) RenderCodes(f record.Field, raw string) []string {
	tokens := record.SplitCodes(raw)
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		if label, ok := t.fields[f][tok]; ok {
			out[i] = label
		} else {
			out[i] = tok
		}
	}
	return out
}

// Render maps raw for field f using u's taxonomy.
func Render(u unit.Unit, f record.Field, raw string) string {
	return Resolve(u.Kind).Render(f, raw)
}
