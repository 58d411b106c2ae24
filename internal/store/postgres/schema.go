package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied on every start. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS passwords (
		bureau_number VARCHAR(50) PRIMARY KEY,
		password VARCHAR(100) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS records (
		id BIGSERIAL PRIMARY KEY,
		bureau_number VARCHAR(50) NOT NULL,
		full_name TEXT,
		birth_date DATE,
		snils VARCHAR(20),
		age_category VARCHAR(20),
		mse_date DATE NOT NULL,
		decision_date DATE,
		reg_date DATE,
		special_marks TEXT,
		military_registration VARCHAR(100),
		document_format VARCHAR(100),
		purpose VARCHAR(100),
		mse_type VARCHAR(50),
		mse_form VARCHAR(50),
		mse_form_change VARCHAR(50),
		prev_disability VARCHAR(50),
		prev_disability_reason VARCHAR(100),
		prev_disability_term VARCHAR(50),
		current_disability VARCHAR(50),
		current_disability_reason VARCHAR(100),
		current_disability_term VARCHAR(50),
		main_diagnosis TEXT,
		pdo_developed VARCHAR(50),
		procedure_type VARCHAR(50),
		decision_changed_part VARCHAR(100),
		tsr_changed VARCHAR(10),
		sfr_appeal VARCHAR(10),
		changed VARCHAR(10),
		ipra_direction VARCHAR(100),
		ipra_contains_tsr VARCHAR(10),
		ipra_changes VARCHAR(100),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS records_unit_date_idx ON records (bureau_number, mse_date DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS records_date_idx ON records (mse_date DESC, id DESC)`,
}

// EnsureSchema creates the records and passwords tables if missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
