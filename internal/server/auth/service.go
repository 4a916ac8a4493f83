// Package auth contains registration, login, per-user brute-force limiting,
// and session-token issuance.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/asanchezr/bancoseguro/internal/common"
	"github.com/asanchezr/bancoseguro/internal/cryptox"
	"github.com/asanchezr/bancoseguro/internal/server/models"
	"github.com/asanchezr/bancoseguro/internal/server/repositories/users"
)

type Service struct {
	repo    users.Repository
	vault   *cryptox.PasswordVault
	limiter *LoginLimiter
}

func NewService(repo users.Repository, vault *cryptox.PasswordVault, limiter *LoginLimiter) *Service {
	return &Service{repo: repo, vault: vault, limiter: limiter}
}

// Register validates the password policy, hashes the password and creates
// the user. A taken username yields common.ErrDuplicateUser.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: missing username", common.ErrValidation)
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	user := &models.User{Username: username, PasswordHash: s.vault.Hash(password)}

	user, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateUser
		}
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return user, nil
}

// Login verifies credentials under the brute-force limiter. An unknown user
// and a wrong password both map to common.ErrBadCredentials so the response
// cannot be used for user enumeration. The boolean result reports whether
// this failure tripped a lockout.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, bool, error) {
	if ok, _ := s.limiter.Allow(username); !ok {
		return nil, false, common.ErrTooManyLogins
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			locked := s.limiter.RecordAttempt(username, false)
			return nil, locked, common.ErrBadCredentials
		}
		return nil, false, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	ok, err := s.vault.Verify(user.PasswordHash, password)
	if err != nil {
		// unparsable stored hash: an operator problem, not a client one
		return nil, false, err
	}
	if !ok {
		locked := s.limiter.RecordAttempt(username, false)
		return nil, locked, common.ErrBadCredentials
	}

	s.limiter.RecordAttempt(username, true)
	return user, false, nil
}

// AttemptsRemaining reports how many login failures are left before lockout.
func (s *Service) AttemptsRemaining(username string) int {
	return s.limiter.Remaining(username)
}
