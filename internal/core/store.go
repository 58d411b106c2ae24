package core

import (
	"context"

	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/unit"
)

// DefaultPageSize is the page size listing endpoints use when the caller
// does not send one.
const DefaultPageSize = 30

// Filter narrows a record query. The zero value matches every record.
type Filter struct {
	// Unit restricts results to one unit. Nil or the oversight unit means
	// every unit.
	Unit *unit.Unit

	// Search matches the SNILS digits or, case-insensitively, the full name.
	Search string

	// Limit caps the result size; 0 means no limit.
	Limit  int
	Offset int
}

// ScopedUnit returns the unit the filter restricts to, if any.
func (f Filter) ScopedUnit() (unit.Unit, bool) {
	if f.Unit == nil || f.Unit.IsOversight() {
		return unit.Unit{}, false
	}
	return *f.Unit, true
}

// SearchDigits is the digit-only form of Search used against stored SNILS.
// Empty when Search holds no digits, in which case only the name matches.
func (f Filter) SearchDigits() string {
	return record.CleanSNILS(f.Search)
}

// RecordStore persists case records. Results are ordered newest
// examination first, then by descending id.
type RecordStore interface {
	Fetch(ctx context.Context, f Filter) ([]record.Record, error)
	Count(ctx context.Context, f Filter) (int64, error)

	// Get returns record.ErrNotFound for unknown ids.
	Get(ctx context.Context, id int64) (record.Record, error)

	// Upsert inserts n for owner when n.ID is nil, otherwise updates the
	// fields n carries on that record; the stored unit never changes.
	Upsert(ctx context.Context, owner unit.Unit, n record.Normalized) (record.Record, error)

	// Delete reports whether a record was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// CredentialStore keeps one secret per unit identifier.
type CredentialStore interface {
	// Secret returns ok=false when key has no secret.
	Secret(ctx context.Context, key string) (secret string, ok bool, err error)

	// SetSecret replaces an existing secret and reports whether key existed.
	SetSecret(ctx context.Context, key, secret string) (bool, error)

	// Seed stores secrets for keys that have none and returns how many were
	// added.
	Seed(ctx context.Context, secrets map[string]string) (int, error)
}
