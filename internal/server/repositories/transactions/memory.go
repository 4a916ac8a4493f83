package transactions

import (
	"context"
	"sync"
	"time"

	"github.com/asanchezr/bancoseguro/internal/server/models"
)

// MemoryRepository is an in-memory append-only ledger used in tests.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   []models.Transaction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Record(ctx context.Context, tx *models.Transaction) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	tx.ID = r.nextID
	tx.RecordedAt = time.Now()
	r.rows = append(r.rows, *tx)
	return tx.ID, nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, username string) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Transaction
	// appended in time order, so walk backwards for most recent first
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].Username == username {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}
