// Package unit models the organizational units that submit MSE decisions.
//
// A unit identifier is one of:
//
//	omo          oversight unit, sees every record
//	bureau_<n>   numbered examining bureau
//	expert_<n>   numbered expert panel
//
// Identifiers are parsed once at the boundary into a [Unit] value; everything
// downstream switches on [Kind] instead of re-inspecting string prefixes.
package unit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the unit type tag.
type Kind int

const (
	Oversight Kind = iota
	Bureau
	ExpertPanel
)

const (
	oversightID  = "omo"
	bureauPrefix = "bureau_"
	expertPrefix = "expert_"
)

// ErrMalformed is returned for identifiers outside the unit grammar.
var ErrMalformed = errors.New("malformed unit identifier")

// String returns a short name for the kind, used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case Oversight:
		return "oversight"
	case Bureau:
		return "bureau"
	case ExpertPanel:
		return "expert"
	default:
		return "unknown"
	}
}

// Unit is a parsed unit identifier. Number is zero for Oversight.
type Unit struct {
	Kind   Kind
	Number int
}

// OMO is the oversight unit.
var OMO = Unit{Kind: Oversight}

// NewBureau returns the bureau with number n.
func NewBureau(n int) Unit { return Unit{Kind: Bureau, Number: n} }

// NewExpert returns the expert panel with number n.
func NewExpert(n int) Unit { return Unit{Kind: ExpertPanel, Number: n} }

// Parse converts an identifier into a Unit.
// The literal "omo" is matched case-insensitively; numbered units require a
// positive integer suffix.
func Parse(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, oversightID) {
		return OMO, nil
	}

	var kind Kind
	var rest string
	switch {
	case strings.HasPrefix(s, bureauPrefix):
		kind, rest = Bureau, strings.TrimPrefix(s, bureauPrefix)
	case strings.HasPrefix(s, expertPrefix):
		kind, rest = ExpertPanel, strings.TrimPrefix(s, expertPrefix)
	default:
		return Unit{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 || strconv.Itoa(n) != rest {
		return Unit{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return Unit{Kind: kind, Number: n}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static tables.
func MustParse(s string) Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// String returns the canonical identifier ("omo", "bureau_3", "expert_5").
func (u Unit) String() string {
	switch u.Kind {
	case Bureau:
		return bureauPrefix + strconv.Itoa(u.Number)
	case ExpertPanel:
		return expertPrefix + strconv.Itoa(u.Number)
	default:
		return oversightID
	}
}

// IsOversight reports whether u is the oversight unit.
func (u Unit) IsOversight() bool { return u.Kind == Oversight }

// Label is the human-readable name used for sheet titles and the source
// column of consolidated reports. Oversight has no label and falls back to
// its raw identifier.
func (u Unit) Label() string {
	switch u.Kind {
	case Bureau:
		return "Бюро №" + strconv.Itoa(u.Number)
	case ExpertPanel:
		return "ЭС №" + strconv.Itoa(u.Number)
	default:
		return u.String()
	}
}

// MarshalText implements encoding.TextMarshaler.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Unit) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
