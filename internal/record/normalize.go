package record

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Normalized is the canonical form of a submitted payload: only the fields
// the payload mentioned, in first-mention order, each holding a pgtype.Text
// or pgtype.Date (Valid=false means NULL).
type Normalized struct {
	// ID is the record being updated, or nil for an insert.
	ID *int64

	// Ignored lists payload keys that matched no field.
	Ignored []string

	order  []Field
	values map[Field]any
}

// Fields returns the present fields in first-mention order.
func (n Normalized) Fields() []Field {
	out := make([]Field, len(n.order))
	copy(out, n.order)
	return out
}

// Has reports whether the payload mentioned f.
func (n Normalized) Has(f Field) bool {
	_, ok := n.values[f]
	return ok
}

// Value returns the stored value for f (pgtype.Text or pgtype.Date).
func (n Normalized) Value(f Field) (any, bool) {
	v, ok := n.values[f]
	return v, ok
}

// Text returns f as text; NULL if absent or a date field.
func (n Normalized) Text(f Field) pgtype.Text {
	t, _ := n.values[f].(pgtype.Text)
	return t
}

// Date returns f as a date; NULL if absent or a text field.
func (n Normalized) Date(f Field) pgtype.Date {
	d, _ := n.values[f].(pgtype.Date)
	return d
}

func (n *Normalized) set(f Field, v any) {
	if n.values == nil {
		n.values = make(map[Field]any)
	}
	if _, seen := n.values[f]; !seen {
		n.order = append(n.order, f)
	}
	n.values[f] = v
}

// Normalize converts a payload into canonical fields.
//
// Keys are resolved through the explicit key table (snake_case, camelCase
// and three legacy expert aliases). Dates are parsed, special marks joined,
// empty strings nulled and the full name whitespace-collapsed. The result
// must carry an examination date.
func Normalize(p Payload, id *int64) (Normalized, error) {
	n := Normalized{ID: id}

	for _, e := range p {
		if droppedKeys[foldKey(e.Key)] {
			continue
		}
		f, ok := LookupKey(e.Key)
		if !ok {
			n.Ignored = append(n.Ignored, e.Key)
			continue
		}

		v, err := normalizeValue(f, e.Value)
		if err != nil {
			return Normalized{}, err
		}
		n.set(f, v)
	}

	if !n.Date(MSEDate).Valid {
		return Normalized{}, requiredFieldError(MSEDate)
	}

	return n, nil
}

func normalizeValue(f Field, v any) (any, error) {
	switch kinds[f] {
	case kindDate:
		return normalizeDate(f, v)
	case kindSet:
		return normalizeSet(f, v)
	}

	if v == nil {
		return pgtype.Text{}, nil
	}
	s, ok := scalarText(v)
	if !ok {
		return nil, &ValidationError{Field: string(f), Value: fmt.Sprint(v), Message: "unsupported value type"}
	}
	if f == FullName {
		s = CollapseSpaces(s)
	}
	return ToPgText(s), nil
}

func normalizeDate(f Field, v any) (pgtype.Date, error) {
	switch x := v.(type) {
	case nil:
		return pgtype.Date{}, nil
	case pgtype.Date:
		return x, nil
	case time.Time:
		return ToPgDate(x), nil
	case *time.Time:
		if x == nil {
			return pgtype.Date{}, nil
		}
		return ToPgDate(*x), nil
	case string:
		d, err := ParseDate(x)
		if err != nil {
			return pgtype.Date{}, &ValidationError{Field: string(f), Value: x, Message: "invalid date format"}
		}
		return d, nil
	default:
		return pgtype.Date{}, &ValidationError{Field: string(f), Value: fmt.Sprint(v), Message: "invalid date format"}
	}
}

func normalizeSet(f Field, v any) (pgtype.Text, error) {
	switch x := v.(type) {
	case nil:
		return pgtype.Text{}, nil
	case string:
		return ToPgText(JoinCodes(SplitCodes(x))), nil
	case []string:
		return ToPgText(JoinCodes(x)), nil
	case []any:
		codes := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := scalarText(item)
			if !ok {
				return pgtype.Text{}, &ValidationError{Field: string(f), Value: fmt.Sprint(item), Message: "unsupported code value"}
			}
			codes = append(codes, s)
		}
		return ToPgText(JoinCodes(codes)), nil
	default:
		return pgtype.Text{}, &ValidationError{Field: string(f), Value: fmt.Sprint(v), Message: "unsupported value type"}
	}
}
