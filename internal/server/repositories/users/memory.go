package users

import (
	"context"
	"sync"
	"time"

	"github.com/asanchezr/bancoseguro/internal/common"
	"github.com/asanchezr/bancoseguro/internal/server/models"
)

// MemoryRepository is an in-memory Repository used in tests and by the
// in-memory repository manager.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byName: make(map[string]*models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}

	r.nextID++
	stored := *user
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	r.byName[stored.Username] = &stored

	out := stored
	return &out, nil
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}
