package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/luminara/journey-api/internal/data/pgxutil"
	apperrors "github.com/luminara/journey-api/internal/errors"
	"github.com/luminara/journey-api/internal/ports"
)

// advisoryLockPurge keeps concurrent sweepers from purging the same rows.
const advisoryLockPurge = 7_340_022

var _ ports.StateStore = (*StateRepo)(nil)

// StateRepo stores session and journey records in the state_records table.
type StateRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewStateRepo creates a StateRepo using the system clock.
func NewStateRepo(db *sql.DB) *StateRepo {
	return &StateRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewStateRepoWithTimeProvider creates a StateRepo with a custom clock (useful for tests).
func NewStateRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *StateRepo {
	return &StateRepo{DB: db, timeProvider: tp}
}

// Load returns the stored JSON value or ports.ErrNotFound.
func (r *StateRepo) Load(ctx context.Context, scope, key string) ([]byte, error) {
	var value []byte
	err := r.DB.QueryRowContext(ctx,
		`SELECT value FROM state_records WHERE scope = $1 AND key = $2`, scope, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", key, apperrors.MapDBError(err))
	}
	return value, nil
}

// Save upserts the record and bumps updated_at on every record of the scope,
// so PurgeIdle removes a scope's records together.
func (r *StateRepo) Save(ctx context.Context, scope, key string, data []byte) error {
	if scope == "" {
		return apperrors.ValidationField("scope", "scope is required")
	}
	now := r.timeProvider.Now().UTC()
	return pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO state_records (scope, key, value, updated_at)
			VALUES ($1, $2, $3::jsonb, $4)
			ON CONFLICT (scope, key) DO UPDATE
			SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		`, scope, key, string(data), now); err != nil {
			return fmt.Errorf("save state %s: %w", key, apperrors.MapDBError(err))
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE state_records SET updated_at = $3 WHERE scope = $1 AND key <> $2`, scope, key, now,
		); err != nil {
			return fmt.Errorf("touch state %s: %w", scope, apperrors.MapDBError(err))
		}
		return nil
	}})
}

// Delete removes the given keys for scope.
func (r *StateRepo) Delete(ctx context.Context, scope string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM state_records WHERE scope = $1 AND key = $2`, scope, key,
			); err != nil {
				return fmt.Errorf("delete state %s: %w", key, apperrors.MapDBError(err))
			}
		}
		return nil
	}})
}

// PurgeIdle deletes records untouched for longer than maxAge and returns how many were removed.
// Another instance holding the purge lock makes this a no-op.
func (r *StateRepo) PurgeIdle(ctx context.Context, maxAge time.Duration) (int64, error) {
	var removed int64
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		var locked bool
		if err := tx.QueryRowContext(ctx, `SELECT pg_try_advisory_xact_lock($1)`, advisoryLockPurge).Scan(&locked); err != nil {
			return fmt.Errorf("acquire advisory lock: %w", err)
		}
		if !locked {
			return nil
		}

		cutoff := r.timeProvider.Now().Add(-maxAge).UTC()
		res, err := tx.ExecContext(ctx, `DELETE FROM state_records WHERE updated_at < $1`, cutoff)
		if err != nil {
			return fmt.Errorf("purge idle state: %w", err)
		}
		removed, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		return nil
	}})
	return removed, err
}
