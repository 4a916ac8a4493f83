// Package ledger is the business layer over the transfer audit trail.
package ledger

import (
	"context"
	"fmt"

	"github.com/asanchezr/bancoseguro/internal/common"
	"github.com/asanchezr/bancoseguro/internal/server/models"
	"github.com/asanchezr/bancoseguro/internal/server/repositories/transactions"
)

type Service struct {
	repo transactions.Repository
}

func NewService(repo transactions.Repository) *Service {
	return &Service{repo: repo}
}

// Transfer validates the amount and appends one row. integrityVerified is
// the MAC-verification outcome the dispatcher established for this request;
// the ledger records it verbatim and never recomputes it. A non-positive
// amount is rejected before any write.
func (s *Service) Transfer(ctx context.Context, username, cuentaOrigen, cuentaDestino string, cantidad float64, integrityVerified bool) (*models.Transaction, error) {
	if cantidad <= 0 {
		return nil, common.ErrInvalidAmount
	}

	tx := &models.Transaction{
		Username:          username,
		CuentaOrigen:      cuentaOrigen,
		CuentaDestino:     cuentaDestino,
		Cantidad:          cantidad,
		IntegrityVerified: integrityVerified,
	}

	if _, err := s.repo.Record(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return tx, nil
}

// History returns the user's transfers, most recent first.
func (s *Service) History(ctx context.Context, username string) ([]models.Transaction, error) {
	rows, err := s.repo.ListByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	return rows, nil
}
