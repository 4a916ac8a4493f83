package repomanager

import (
	"context"

	"github.com/asanchezr/bancoseguro/internal/dbx"
	"github.com/asanchezr/bancoseguro/internal/server/repositories/nonces"
	"github.com/asanchezr/bancoseguro/internal/server/repositories/transactions"
	"github.com/asanchezr/bancoseguro/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves tests and ephemeral runs. The DBTX
// argument is ignored; state lives in the process.
type InMemoryRepositoryManager struct {
	users        *users.MemoryRepository
	nonces       *nonces.MemoryRepository
	transactions *transactions.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:        users.NewMemoryRepository(),
		nonces:       nonces.NewMemoryRepository(),
		transactions: transactions.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Nonces(db dbx.DBTX) nonces.Repository {
	return m.nonces
}

func (m *InMemoryRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return m.transactions
}

// Conn returns nil: in-memory repositories ignore the DBTX argument.
func (m *InMemoryRepositoryManager) Conn() dbx.DBTX {
	return nil
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}
