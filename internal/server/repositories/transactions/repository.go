// Package transactions is the durable, append-only transfer ledger. This is
// an audit trail, not a solvency ledger: no balances, no compensation.
package transactions

import (
	"context"

	"github.com/asanchezr/bancoseguro/internal/server/models"
)

type Repository interface {
	// Record appends exactly one immutable row and returns its ID. All-or-
	// nothing: a failed insert leaves no partial record.
	Record(ctx context.Context, tx *models.Transaction) (int64, error)

	// ListByUser returns the user's transactions, most recent first.
	ListByUser(ctx context.Context, username string) ([]models.Transaction, error)
}
