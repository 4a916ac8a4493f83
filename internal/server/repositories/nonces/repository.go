// Package nonces is the anti-replay ledger: a durable set of seen nonces
// with an atomic claim operation and an expiry sweep.
package nonces

import (
	"context"
	"time"
)

type Repository interface {
	// Claim atomically records value as seen, with a lifetime of ttl, unless
	// a live record for it already exists. It returns true when this caller
	// won the claim and false when the nonce was already live. Under
	// concurrent callers presenting the same value, at most one observes
	// true; the check and the insert are a single operation, never a
	// read-then-write.
	Claim(ctx context.Context, value []byte, ttl time.Duration) (bool, error)

	// Sweep deletes expired records and returns how many were removed. It
	// reclaims storage only; it takes no part in the replay decision.
	Sweep(ctx context.Context) (int64, error)
}
