package nonces

import (
	"context"
	"fmt"
	"time"

	"github.com/asanchezr/bancoseguro/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Claim relies on the UNIQUE constraint on valor: the insert either lands, or
// conflicts with an existing row. A conflicting row that has already expired
// is taken over in the same statement, so an expired value becomes claimable
// again without waiting for the sweep. There is no separate existence check
// to race against.
func (r *PostgresRepository) Claim(ctx context.Context, value []byte, ttl time.Duration) (bool, error) {

	query :=
		`INSERT INTO nonces (valor, expira, usado_en)
		 VALUES ($1, now() + make_interval(secs => $2), now())
		 ON CONFLICT (valor) DO UPDATE
		     SET expira = EXCLUDED.expira, usado_en = EXCLUDED.usado_en
		     WHERE nonces.expira <= now()
		 `

	res, err := r.db.ExecContext(ctx, query, value, ttl.Seconds())
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n == 1, nil
}

func (r *PostgresRepository) Sweep(ctx context.Context) (int64, error) {

	res, err := r.db.ExecContext(ctx, `DELETE FROM nonces WHERE expira <= now()`)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
