// Package memory is an in-process record and credential store. It backs
// tests and the msectl demo mode; production uses the postgres package.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/mseboard/internal/core"
	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/unit"
)

// Store implements core.RecordStore and core.CredentialStore.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]record.Record
	secrets map[string]string

	now func() time.Time
}

var (
	_ core.RecordStore     = (*Store)(nil)
	_ core.CredentialStore = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{
		records: make(map[int64]record.Record),
		secrets: make(map[string]string),
		now:     time.Now,
	}
}

// WithClock replaces the timestamp source. Used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Fetch(ctx context.Context, f core.Filter) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]record.Record, 0, len(s.records))
	for _, r := range s.records {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b record.Record) int {
		if c := b.MSEDate.Time.Compare(a.MSEDate.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []record.Record{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, f core.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.records {
		if matches(r, f) {
			n++
		}
	}
	return n, nil
}

func matches(r record.Record, f core.Filter) bool {
	if u, ok := f.ScopedUnit(); ok && r.Unit != u {
		return false
	}
	if f.Search == "" {
		return true
	}
	if digits := f.SearchDigits(); digits != "" && strings.Contains(record.CleanSNILS(r.SNILS.String), digits) {
		return true
	}
	return strings.Contains(strings.ToLower(r.FullName.String), strings.ToLower(f.Search))
}

func (s *Store) Get(ctx context.Context, id int64) (record.Record, error) {
	if err := ctx.Err(); err != nil {
		return record.Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return record.Record{}, fmt.Errorf("%w: id %d", record.ErrNotFound, id)
	}
	return r, nil
}

func (s *Store) Upsert(ctx context.Context, owner unit.Unit, n record.Normalized) (record.Record, error) {
	if err := ctx.Err(); err != nil {
		return record.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()

	if n.ID == nil {
		s.nextID++
		r := record.Record{ID: s.nextID, Unit: owner, CreatedAt: now, UpdatedAt: now}
		r.Apply(n)
		s.records[r.ID] = r
		return r, nil
	}

	r, ok := s.records[*n.ID]
	if !ok {
		return record.Record{}, fmt.Errorf("%w: id %d", record.ErrNotFound, *n.ID)
	}
	r.Apply(n)
	if now.After(r.UpdatedAt) {
		r.UpdatedAt = now
	}
	s.records[r.ID] = r
	return r, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

func (s *Store) Secret(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	secret, ok := s.secrets[key]
	return secret, ok, nil
}

func (s *Store) SetSecret(ctx context.Context, key, secret string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.secrets[key]; !ok {
		return false, nil
	}
	s.secrets[key] = secret
	return true, nil
}

func (s *Store) Seed(ctx context.Context, secrets map[string]string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for k, v := range secrets {
		if _, ok := s.secrets[k]; ok {
			continue
		}
		s.secrets[k] = v
		added++
	}
	return added, nil
}
