package nonces

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps the nonce set in a mutex-guarded map. The claim
// check and insert happen under one lock acquisition, giving the same
// at-most-one-claim guarantee as the SQL upsert.
type MemoryRepository struct {
	mu   sync.Mutex
	seen map[string]time.Time // value -> expiry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{seen: make(map[string]time.Time)}
}

func (r *MemoryRepository) Claim(ctx context.Context, value []byte, ttl time.Duration) (bool, error) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if exp, ok := r.seen[string(value)]; ok && exp.After(now) {
		return false, nil
	}
	r.seen[string(value)] = now.Add(ttl)
	return true, nil
}

// Len reports how many values are currently tracked, expired or not.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func (r *MemoryRepository) Sweep(ctx context.Context) (int64, error) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for v, exp := range r.seen {
		if !exp.After(now) {
			delete(r.seen, v)
			removed++
		}
	}
	return removed, nil
}
