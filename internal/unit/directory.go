package unit

import (
	"fmt"
	"slices"
)

// Directory is the configured set of units. It is derived from
// configuration, never from stored data.
type Directory struct {
	bureaus []Unit
	experts []Unit
}

// NewDirectory builds a directory with bureaus 1..bureauCount minus the
// excluded numbers and the listed expert panels in the given order.
func NewDirectory(bureauCount int, excluded []int, experts []int) (*Directory, error) {
	if bureauCount < 0 {
		return nil, fmt.Errorf("bureau count must be non-negative, got %d", bureauCount)
	}

	d := &Directory{}
	for n := 1; n <= bureauCount; n++ {
		if slices.Contains(excluded, n) {
			continue
		}
		d.bureaus = append(d.bureaus, NewBureau(n))
	}

	seen := make(map[int]bool, len(experts))
	for _, n := range experts {
		if n <= 0 {
			return nil, fmt.Errorf("expert panel number must be positive, got %d", n)
		}
		if seen[n] {
			return nil, fmt.Errorf("expert panel %d listed twice", n)
		}
		seen[n] = true
		d.experts = append(d.experts, NewExpert(n))
	}

	return d, nil
}

// Bureaus returns the configured bureaus in ascending order.
func (d *Directory) Bureaus() []Unit { return slices.Clone(d.bureaus) }

// Experts returns the configured expert panels in configured order.
func (d *Directory) Experts() []Unit { return slices.Clone(d.experts) }

// All returns oversight, then bureaus, then experts.
func (d *Directory) All() []Unit {
	all := make([]Unit, 0, 1+len(d.bureaus)+len(d.experts))
	all = append(all, OMO)
	all = append(all, d.bureaus...)
	all = append(all, d.experts...)
	return all
}

// Contains reports whether u is a configured unit. Oversight is always
// configured.
func (d *Directory) Contains(u Unit) bool {
	switch u.Kind {
	case Oversight:
		return true
	case Bureau:
		return slices.Contains(d.bureaus, u)
	case ExpertPanel:
		return slices.Contains(d.experts, u)
	}
	return false
}
