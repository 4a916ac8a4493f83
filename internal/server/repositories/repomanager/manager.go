// Package repomanager vends repository implementations bound to a DB handle
// and owns schema migrations.
package repomanager

import (
	"context"

	"github.com/asanchezr/bancoseguro/internal/dbx"
	"github.com/asanchezr/bancoseguro/internal/server/repositories/nonces"
	"github.com/asanchezr/bancoseguro/internal/server/repositories/transactions"
	"github.com/asanchezr/bancoseguro/internal/server/repositories/users"
)

// RepositoryManager returns repositories bound to the provided DBTX, so the
// same repository code runs against *sql.DB or inside a transaction handle.
// Conn exposes the manager's own handle for that binding; the in-memory
// implementation has none and returns nil.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Nonces(db dbx.DBTX) nonces.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Conn() dbx.DBTX
	Close() error
	RunMigrations(ctx context.Context) error
}
