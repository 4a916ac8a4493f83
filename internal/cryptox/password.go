package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/asanchezr/bancoseguro/internal/common"
)

// Argon2Params are the fixed cost parameters for password hashing. They are
// configuration constants, not secrets.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultArgon2Params matches the deployed configuration: 3 passes over
// 64 MiB with 4 lanes, 32-byte digest, 16-byte salt.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{Time: 3, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}
}

// PasswordVault hashes and verifies passwords with Argon2id. Stored hashes
// use the PHC string format, so the parameters and salt travel inside the
// hash and verification needs no external state.
type PasswordVault struct {
	params Argon2Params
}

func NewPasswordVault(p Argon2Params) *PasswordVault {
	return &PasswordVault{params: p}
}

// Hash derives an Argon2id digest of password under a fresh random salt and
// returns the PHC-encoded string. Two calls with the same password produce
// different strings.
func (v *PasswordVault) Hash(password string) string {
	salt := common.GenerateRandByteArray(int(v.params.SaltLen))
	digest := argon2.IDKey([]byte(password), salt, v.params.Time, v.params.Memory, v.params.Threads, v.params.KeyLen)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, v.params.Memory, v.params.Time, v.params.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(digest))
}

// Verify re-derives the digest using the parameters and salt embedded in
// stored and compares in constant time. It returns false for a wrong
// password and common.ErrCorruptCredential if stored cannot be parsed.
func (v *PasswordVault) Verify(stored, password string) (bool, error) {
	params, salt, digest, err := decodeHash(stored)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, uint32(len(digest)))
	return subtle.ConstantTimeCompare(digest, candidate) == 1, nil
}

// decodeHash parses a PHC string of the form
// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<digest>.
func decodeHash(stored string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, common.ErrCorruptCredential
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, common.ErrCorruptCredential
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, common.ErrCorruptCredential
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, common.ErrCorruptCredential
	}
	digest, err := b64.DecodeString(parts[5])
	if err != nil || len(digest) == 0 {
		return p, nil, nil, common.ErrCorruptCredential
	}

	return p, salt, digest, nil
}
