package transactions

import (
	"context"
	"fmt"

	"github.com/asanchezr/bancoseguro/internal/dbx"
	"github.com/asanchezr/bancoseguro/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Record(ctx context.Context, tx *models.Transaction) (int64, error) {

	query :=
		`INSERT INTO transacciones (username, cuenta_origen, cuenta_destino, cantidad, mac_verificado)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, timestamp
		 `

	err := r.db.QueryRowContext(ctx, query,
		tx.Username, tx.CuentaOrigen, tx.CuentaDestino, tx.Cantidad, tx.IntegrityVerified).
		Scan(&tx.ID, &tx.RecordedAt)

	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return tx.ID, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, username string) ([]models.Transaction, error) {

	query :=
		`SELECT id, username, cuenta_origen, cuenta_destino, cantidad, timestamp, mac_verificado
		 FROM transacciones
		 WHERE username = $1
		 ORDER BY timestamp DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.Username, &tx.CuentaOrigen, &tx.CuentaDestino,
			&tx.Cantidad, &tx.RecordedAt, &tx.IntegrityVerified); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}
