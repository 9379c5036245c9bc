package inventory

import (
	"context"

	pkgerrors "github.com/codecollab/casevault-backend/pkg/errors"
)

// Service exposes inventory reads to the boundary layer. Records are created
// and retired only through the game engine.
type Service interface {
	ListActive(ctx context.Context, userID string) ([]OwnedItemRow, error)
}

type service struct {
	repo *Repository
}

// NewService builds an inventory service with the required repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory repo is required")
	}
	return &service{repo: repo}, nil
}

// ListActive returns the caller's unsold items.
func (s *service) ListActive(ctx context.Context, userID string) ([]OwnedItemRow, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	return rows, nil
}
