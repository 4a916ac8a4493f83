// Package cryptox holds the cryptographic primitives of the protocol:
// the keyed MAC over (payload ‖ nonce), nonce generation, and Argon2id
// password hashing.
package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"github.com/asanchezr/bancoseguro/internal/common"
)

// MACEngine computes and verifies HMAC-SHA256 tags over the concatenation of
// a payload and a nonce, keyed with the pre-shared secret. The secret is set
// once at construction and never mutated; a single engine is safe for
// concurrent use.
type MACEngine struct {
	secret []byte
}

// NewMACEngine validates the key length and returns an engine bound to it.
func NewMACEngine(secret []byte) (*MACEngine, error) {
	if len(secret) != common.KeySize {
		return nil, fmt.Errorf("shared key must be %d bytes, got %d", common.KeySize, len(secret))
	}
	k := make([]byte, len(secret))
	copy(k, secret)
	return &MACEngine{secret: k}, nil
}

// Compute returns the 32-byte HMAC-SHA256 of payload‖nonce.
func (e *MACEngine) Compute(payload, nonce []byte) []byte {
	mac := hmac.New(sha256.New, e.secret)
	mac.Write(payload)
	mac.Write(nonce)
	return mac.Sum(nil)
}

// Verify recomputes the tag and compares it against candidate in constant
// time. A mismatch is an expected outcome, reported by return value rather
// than an error.
func (e *MACEngine) Verify(payload, nonce, candidate []byte) bool {
	return hmac.Equal(e.Compute(payload, nonce), candidate)
}

// NewNonce returns a fresh 32-byte nonce from the system CSPRNG.
func NewNonce() []byte {
	return common.GenerateRandByteArray(common.NonceSize)
}
