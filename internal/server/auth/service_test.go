package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanchezr/bancoseguro/internal/common"
	"github.com/asanchezr/bancoseguro/internal/cryptox"
	"github.com/asanchezr/bancoseguro/internal/server/repositories/users"
)

const goodPassword = "Str0ng!Password"

func newTestService() *Service {
	vault := cryptox.NewPasswordVault(cryptox.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	limiter := NewLoginLimiter(3, 5*time.Minute, 15*time.Minute)
	return NewService(users.NewMemoryRepository(), vault, limiter)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	t.Run("ok", func(t *testing.T) {
		user, err := s.Register(ctx, "alice", goodPassword)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NotEqual(t, goodPassword, user.PasswordHash)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := s.Register(ctx, "alice", goodPassword)
		assert.ErrorIs(t, err, common.ErrDuplicateUser)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := s.Register(ctx, "bob", "weak")
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("missing username", func(t *testing.T) {
		_, err := s.Register(ctx, "", goodPassword)
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	_, err := s.Register(ctx, "alice", goodPassword)
	require.NoError(t, err)

	t.Run("ok", func(t *testing.T) {
		user, locked, err := s.Login(ctx, "alice", goodPassword)
		require.NoError(t, err)
		assert.False(t, locked)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := s.Login(ctx, "alice", "Wrong!Password1")
		assert.ErrorIs(t, err, common.ErrBadCredentials)
	})

	t.Run("unknown user looks the same as wrong password", func(t *testing.T) {
		_, _, err := s.Login(ctx, "nobody", goodPassword)
		assert.ErrorIs(t, err, common.ErrBadCredentials)
	})
}

func TestLogin_Lockout(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	_, err := s.Register(ctx, "alice", goodPassword)
	require.NoError(t, err)

	_, locked, err := s.Login(ctx, "alice", "Wrong!Password1")
	assert.ErrorIs(t, err, common.ErrBadCredentials)
	assert.False(t, locked)
	assert.Equal(t, 2, s.AttemptsRemaining("alice"))

	_, locked, _ = s.Login(ctx, "alice", "Wrong!Password1")
	assert.False(t, locked)

	_, locked, err = s.Login(ctx, "alice", "Wrong!Password1")
	assert.ErrorIs(t, err, common.ErrBadCredentials)
	assert.True(t, locked, "hitting the limit must report the lockout")

	// even the right password is refused while locked out
	_, _, err = s.Login(ctx, "alice", goodPassword)
	assert.ErrorIs(t, err, common.ErrTooManyLogins)
}
