package profiles

import (
	"context"

	"github.com/codecollab/casevault-backend/pkg/db/models"
	pkgerrors "github.com/codecollab/casevault-backend/pkg/errors"
)

// Service exposes profile reads to the boundary layer. Mutation happens only
// through the game engine.
type Service interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
}

type service struct {
	repo            *Repository
	startingBalance int
}

// NewService builds a profile service with the required repository.
func NewService(repo *Repository, startingBalanceCents int) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile repo is required")
	}
	if startingBalanceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "starting balance must be non-negative")
	}
	return &service{repo: repo, startingBalance: startingBalanceCents}, nil
}

// Get returns the caller's profile, creating it with the starting balance on
// first access.
func (s *service) Get(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	profile, err := s.repo.GetOrCreate(ctx, userID, s.startingBalance)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}
