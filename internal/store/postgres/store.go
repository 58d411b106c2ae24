// Package postgres stores MSE records and unit credentials in PostgreSQL
// through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/JonMunkholm/mseboard/internal/core"
	"github.com/JonMunkholm/mseboard/internal/record"
	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements core.RecordStore and core.CredentialStore.
type Store struct {
	pool *pgxpool.Pool
}

var (
	_ core.RecordStore     = (*Store)(nil)
	_ core.CredentialStore = (*Store)(nil)
)

// New wraps pool. Call EnsureSchema first on a fresh database.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Fetch(ctx context.Context, f core.Filter) ([]record.Record, error) {
	query, args := fetchQuery(f)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := []record.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, f core.Filter) (int64, error) {
	query, args := countQuery(f)

	var n int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func (s *Store) Get(ctx context.Context, id int64) (record.Record, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+recordColumns+" FROM records WHERE id = $1", id)
	r, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return record.Record{}, fmt.Errorf("%w: id %d", record.ErrNotFound, id)
	}
	return r, err
}

func (s *Store) Upsert(ctx context.Context, owner unit.Unit, n record.Normalized) (record.Record, error) {
	var query string
	var args []any
	if n.ID == nil {
		query, args = insertQuery(owner.String(), n)
	} else {
		query, args = updateQuery(*n.ID, n)
	}

	r, err := scanRecord(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) && n.ID != nil {
		return record.Record{}, fmt.Errorf("%w: id %d", record.ErrNotFound, *n.ID)
	}
	return r, err
}

func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM records WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanRecord reads one row in recordColumns order.
func scanRecord(row pgx.Row) (record.Record, error) {
	var r record.Record
	var owner string

	fields := record.Fields()
	dest := make([]any, 0, len(fields)+4)
	dest = append(dest, &r.ID, &owner)
	for _, f := range fields {
		dest = append(dest, r.Slot(f))
	}
	dest = append(dest, &r.CreatedAt, &r.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return record.Record{}, err
		}
		return record.Record{}, fmt.Errorf("scan record: %w", err)
	}

	u, err := unit.Parse(owner)
	if err != nil {
		return record.Record{}, fmt.Errorf("record %d: %w", r.ID, err)
	}
	r.Unit = u
	return r, nil
}

func (s *Store) Secret(ctx context.Context, key string) (string, bool, error) {
	var secret string
	err := s.pool.QueryRow(ctx, "SELECT password FROM passwords WHERE bureau_number = $1", key).Scan(&secret)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load password: %w", err)
	}
	return secret, true, nil
}

func (s *Store) SetSecret(ctx context.Context, key, secret string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		"UPDATE passwords SET password = $1, updated_at = CURRENT_TIMESTAMP WHERE bureau_number = $2",
		secret, key)
	if err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Seed inserts the missing secrets in one transaction.
func (s *Store) Seed(ctx context.Context, secrets map[string]string) (int, error) {
	keys := make([]string, 0, len(secrets))
	for k := range secrets {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	added := 0
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, k := range keys {
			tag, err := tx.Exec(ctx,
				"INSERT INTO passwords (bureau_number, password) VALUES ($1, $2) ON CONFLICT (bureau_number) DO NOTHING",
				k, secrets[k])
			if err != nil {
				return fmt.Errorf("seed %s: %w", k, err)
			}
			added += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
