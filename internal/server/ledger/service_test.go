package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanchezr/bancoseguro/internal/common"
	"github.com/asanchezr/bancoseguro/internal/server/repositories/transactions"
)

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	repo := transactions.NewMemoryRepository()
	s := NewService(repo)

	tx, err := s.Transfer(ctx, "alice", "ES1111", "ES2222", 500.00, true)
	require.NoError(t, err)
	assert.NotZero(t, tx.ID)
	assert.Equal(t, "alice", tx.Username)
	assert.True(t, tx.IntegrityVerified)

	rows, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestTransfer_RejectsNonPositiveAmounts(t *testing.T) {
	ctx := context.Background()
	repo := transactions.NewMemoryRepository()
	s := NewService(repo)

	for _, cantidad := range []float64{0, -1, -500.25} {
		_, err := s.Transfer(ctx, "alice", "ES1111", "ES2222", cantidad, true)
		assert.ErrorIs(t, err, common.ErrInvalidAmount)
	}

	rows, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, rows, "a rejected transfer must not leave a row behind")
}

func TestHistory_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewService(transactions.NewMemoryRepository())

	_, err := s.Transfer(ctx, "alice", "ES1111", "ES2222", 100, true)
	require.NoError(t, err)
	_, err = s.Transfer(ctx, "alice", "ES1111", "ES3333", 200, true)
	require.NoError(t, err)
	_, err = s.Transfer(ctx, "bob", "ES9999", "ES8888", 300, true)
	require.NoError(t, err)

	rows, err := s.History(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ES3333", rows[0].CuentaDestino)
	assert.Equal(t, "ES2222", rows[1].CuentaDestino)
}
