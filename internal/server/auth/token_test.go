package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanchezr/bancoseguro/internal/common"
)

var tokenSecret = []byte("0123456789abcdef0123456789abcdef")

func TestTokenIssuer_RoundTrip(t *testing.T) {
	i := NewTokenIssuer(tokenSecret, time.Minute)

	token, err := i.Issue("alice", "sess-1")
	require.NoError(t, err)

	username, sessionID, err := i.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
	assert.Equal(t, "sess-1", sessionID)
}

func TestTokenIssuer_Expired(t *testing.T) {
	i := NewTokenIssuer(tokenSecret, -time.Minute)

	token, err := i.Issue("alice", "sess-1")
	require.NoError(t, err)

	_, _, err = i.Parse(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	i := NewTokenIssuer(tokenSecret, time.Minute)
	other := NewTokenIssuer([]byte("another-secret-another-secret-ab"), time.Minute)

	token, err := i.Issue("alice", "sess-1")
	require.NoError(t, err)

	_, _, err = other.Parse(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	i := NewTokenIssuer(tokenSecret, time.Minute)

	_, _, err := i.Parse("not.a.token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
