// Package users stores credentials: one row per registered user, created on
// registration and read on login, never updated.
package users

import (
	"context"

	"github.com/asanchezr/bancoseguro/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. A username collision yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the stored user or common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
