package record

// convert.go turns loosely typed payload values into pgtype values.
//
// All To* helpers return Valid=false for empty input so the store writes
// NULL. Dates accept exactly three layouts, tried in order; the first that
// parses wins.

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// dateLayouts in priority order: ISO, Russian, US. Single-digit day and
// month are accepted in each.
var dateLayouts = []string{
	"2006-1-2",
	"2.1.2006",
	"1/2/2006",
}

// reportDateLayout is how dates appear in generated reports.
const reportDateLayout = "02.01.2006"

// ParseDate parses s with the accepted layouts.
// An empty string yields an invalid (NULL) date and no error.
func ParseDate(s string) (pgtype.Date, error) {
	if s == "" {
		return pgtype.Date{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return pgtype.Date{Time: t, Valid: true}, nil
		}
	}
	return pgtype.Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD, DD.MM.YYYY or MM/DD/YYYY", s)
}

// ToPgDate converts a native date value. Time of day and zone are dropped.
func ToPgDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// ToPgText converts s to pgtype.Text. Empty strings become NULL; anything
// else is kept verbatim.
func ToPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// FormatDate renders d as DD.MM.YYYY, or "" for NULL.
func FormatDate(d pgtype.Date) string {
	if !d.Valid || d.InfinityModifier != pgtype.Finite {
		return ""
	}
	return d.Time.Format(reportDateLayout)
}

// scalarText formats a scalar JSON or Go value as text.
// ok is false for lists, objects and other composite values.
func scalarText(v any) (s string, ok bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}

// CleanSNILS strips every non-digit from a national insurance number.
func CleanSNILS(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CollapseSpaces trims s and replaces inner whitespace runs with one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// JoinCodes canonicalizes a code set: tokens are trimmed, empty tokens
// dropped, order kept, and the rest joined with ",".
func JoinCodes(codes []string) string {
	kept := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c != "" {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, ",")
}

// SplitCodes is the inverse of JoinCodes.
func SplitCodes(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
