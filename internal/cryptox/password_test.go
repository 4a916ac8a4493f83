package cryptox

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanchezr/bancoseguro/internal/common"
)

// low-cost parameters so tests stay fast
func testVault() *PasswordVault {
	return NewPasswordVault(Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
}

func TestPasswordVault_HashAndVerify(t *testing.T) {
	v := testVault()
	stored := v.Hash("Secret123!")

	ok, err := v.Verify(stored, "Secret123!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify(stored, "Secret123?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordVault_SaltRandomness(t *testing.T) {
	v := testVault()
	a := v.Hash("same password")
	b := v.Hash("same password")
	assert.NotEqual(t, a, b, "same password must hash differently (random salt)")
}

func TestPasswordVault_PHCFormat(t *testing.T) {
	v := testVault()
	stored := v.Hash("p")

	require.True(t, strings.HasPrefix(stored, "$argon2id$v=19$m=8192,t=1,p=1$"), "got %q", stored)
	require.Len(t, strings.Split(stored, "$"), 6)
}

func TestPasswordVault_VerifyUsesEmbeddedParams(t *testing.T) {
	// hash with one parameter set, verify through a vault configured with another
	stored := testVault().Hash("Secret123!")

	other := NewPasswordVault(DefaultArgon2Params())
	ok, err := other.Verify(stored, "Secret123!")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordVault_CorruptCredential(t *testing.T) {
	v := testVault()

	cases := []string{
		"",
		"not a hash at all",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$ZGlnZXN0",   // wrong variant
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$ZGlnZXN0",  // wrong version
		"$argon2id$v=19$m=8192,t=1,p=1$!!notb64!!$ZGln",  // bad salt encoding
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$",          // empty digest
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$ZGlnZXN0",     // unparsable params
	}

	for _, stored := range cases {
		_, err := v.Verify(stored, "whatever")
		assert.True(t, errors.Is(err, common.ErrCorruptCredential), "case %q: got %v", stored, err)
	}
}
