package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/mseboard/internal/core"
	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalized(t *testing.T, id *int64, kv ...any) record.Normalized {
	t.Helper()
	var p record.Payload
	for i := 0; i+1 < len(kv); i += 2 {
		p = append(p, record.Entry{Key: kv[i].(string), Value: kv[i+1]})
	}
	n, err := record.Normalize(p, id)
	require.NoError(t, err)
	return n
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	rows := []struct {
		u  unit.Unit
		kv []any
	}{
		{unit.NewBureau(1), []any{"mseDate", "2024-01-10", "fullName", "Ivan Petrov", "snils", "123-456-789 00"}},
		{unit.NewBureau(1), []any{"mseDate", "2024-03-01", "fullName", "Anna Ivanova", "snils", "987-654-321 00"}},
		{unit.NewExpert(5), []any{"mseDate", "2024-03-01", "fullName", "Oleg Sidorov"}},
		{unit.NewBureau(2), []any{"mseDate", "2023-12-31", "fullName", "Petr Petrov"}},
	}
	for _, r := range rows {
		_, err := s.Upsert(ctx, r.u, normalized(t, nil, r.kv...))
		require.NoError(t, err)
	}
}

func ids(records []record.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFetch_OrderAndFilters(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	all, err := s.Fetch(ctx, core.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1, 4}, ids(all))

	b1 := unit.NewBureau(1)
	mine, err := s.Fetch(ctx, core.Filter{Unit: &b1})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(mine))

	omo := unit.OMO
	everything, err := s.Fetch(ctx, core.Filter{Unit: &omo})
	require.NoError(t, err)
	assert.Len(t, everything, 4)

	page, err := s.Fetch(ctx, core.Filter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(page))

	past, err := s.Fetch(ctx, core.Filter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestFetch_Search(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	tests := []struct {
		search string
		want   []int64
	}{
		{"petrov", []int64{1, 4}},
		{"12345678900", []int64{1}},
		{"456-789", []int64{1}},
		{"zzz", []int64{}},
		{"Олег", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got, err := s.Fetch(ctx, core.Filter{Search: tt.search})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))

			n, err := s.Count(ctx, core.Filter{Search: tt.search})
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), n)
		})
	}
}

func TestUpsert_UpdateKeepsUnitAndAdvancesTimestamp(t *testing.T) {
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := New().WithClock(func() time.Time { return clock })
	ctx := context.Background()

	created, err := s.Upsert(ctx, unit.NewBureau(3), normalized(t, nil, "mseDate", "2024-01-15", "fullName", "Ivan"))
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	id := created.ID
	updated, err := s.Upsert(ctx, unit.OMO, normalized(t, &id, "mseDate", "2024-01-16", "purpose", "supt"))
	require.NoError(t, err)

	assert.Equal(t, unit.NewBureau(3), updated.Unit)
	assert.Equal(t, "Ivan", updated.Text(record.FullName))
	assert.Equal(t, "supt", updated.Text(record.Purpose))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	clock = clock.Add(-2 * time.Hour)
	again, err := s.Upsert(ctx, unit.OMO, normalized(t, &id, "mseDate", "2024-01-16"))
	require.NoError(t, err)
	assert.Equal(t, updated.UpdatedAt, again.UpdatedAt)
}

func TestUpsert_UnknownID(t *testing.T) {
	id := int64(99)
	_, err := New().Upsert(context.Background(), unit.OMO, normalized(t, &id, "mseDate", "2024-01-15"))
	assert.True(t, errors.Is(err, record.ErrNotFound))
}

func TestGetDelete(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	r, err := s.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Anna Ivanova", r.Text(record.FullName))

	ok, err := s.Delete(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delete(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Get(ctx, 2)
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestCredentials(t *testing.T) {
	s := New()
	ctx := context.Background()

	n, err := s.Seed(ctx, map[string]string{"omo": "root", "bureau_1": "00000"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ok, err := s.SetSecret(ctx, "bureau_1", "changed")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err = s.Seed(ctx, map[string]string{"bureau_1": "00000", "bureau_2": "00000"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	secret, ok, err := s.Secret(ctx, "bureau_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "changed", secret)

	ok, err = s.SetSecret(ctx, "bureau_9", "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Fetch(ctx, core.Filter{})
	assert.ErrorIs(t, err, context.Canceled)
}
