package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codecollab/casevault-backend/pkg/db/models"
	pkgerrors "github.com/codecollab/casevault-backend/pkg/errors"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Service exposes catalog reads for display plus admin-side writes.
type Service interface {
	ListCases(ctx context.Context) ([]CaseDTO, error)
	GetCase(ctx context.Context, id int64) (*CaseDTO, error)
	CreateItem(ctx context.Context, input CreateItemInput) (*models.Item, error)
	CreateCase(ctx context.Context, input CreateCaseInput) (*CaseDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service with the required repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{repo: repo}, nil
}

// ListCases returns every case with its drop table.
func (s *service) ListCases(ctx context.Context) ([]CaseDTO, error) {
	cases, err := s.repo.ListCases(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cases")
	}

	dtos := make([]CaseDTO, 0, len(cases))
	for _, c := range cases {
		entries, err := s.repo.ListDropEntries(ctx, c.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load drop table")
		}
		dtos = append(dtos, newCaseDTO(c, entries))
	}
	return dtos, nil
}

// GetCase returns one case with its drop table.
func (s *service) GetCase(ctx context.Context, id int64) (*CaseDTO, error) {
	c, err := s.repo.FindCase(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "case not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load case")
	}
	entries, err := s.repo.ListDropEntries(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load drop table")
	}
	dto := newCaseDTO(*c, entries)
	return &dto, nil
}

// CreateItem adds a catalog item. Items are immutable once created.
func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*models.Item, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price must be non-negative")
	}
	if !input.Rarity.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid rarity %q", input.Rarity))
	}

	item := models.Item{
		Name:       strings.TrimSpace(input.Name),
		PriceCents: input.PriceCents,
		ImageURL:   input.ImageURL,
		Rarity:     input.Rarity,
	}
	if err := s.repo.CreateItem(ctx, &item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	return &item, nil
}

// CreateCase adds a case and its drop table. Weights are validated here so a
// case can never reach the engine with a table the resolver would reject.
func (s *service) CreateCase(ctx context.Context, input CreateCaseInput) (*CaseDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "case name is required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "case price must be non-negative")
	}
	if err := validateEntries(input.Entries); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid drop table").
			WithDetails(map[string]any{"error": err.Error()})
	}

	ids := make([]int64, 0, len(input.Entries))
	for _, entry := range input.Entries {
		ids = append(ids, entry.ItemID)
	}
	count, err := s.repo.CountItems(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify items")
	}
	if count != int64(len(ids)) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "drop table references unknown items")
	}

	c := models.Case{
		Name:        strings.TrimSpace(input.Name),
		PriceCents:  input.PriceCents,
		ImageURL:    input.ImageURL,
		Description: input.Description,
	}
	entries := make([]models.CaseEntry, 0, len(input.Entries))
	for _, entry := range input.Entries {
		entries = append(entries, models.CaseEntry{
			ItemID: entry.ItemID,
			Chance: entry.Chance,
		})
	}
	if err := s.repo.CreateCase(ctx, &c, entries); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create case")
	}

	return s.GetCase(ctx, c.ID)
}

func validateEntries(entries []CreateCaseEntryInput) error {
	if len(entries) == 0 {
		return fmt.Errorf("at least one drop entry is required")
	}

	var errs error
	seen := make(map[int64]bool, len(entries))
	total := 0.0
	for i, entry := range entries {
		if entry.ItemID <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: item id is required", i))
		}
		if entry.Chance < 0 {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: chance must be non-negative", i))
		}
		if seen[entry.ItemID] {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: duplicate item %d", i, entry.ItemID))
		}
		seen[entry.ItemID] = true
		total += entry.Chance
	}
	if total <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("total chance must be positive"))
	}
	return errs
}
