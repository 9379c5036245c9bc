package catalog

import (
	"time"

	"github.com/codecollab/casevault-backend/pkg/db/models"
	"github.com/codecollab/casevault-backend/pkg/enums"
)

// WeightedItem pairs a catalog item with its configured drop weight.
type WeightedItem struct {
	Item   models.Item `json:"item"`
	Chance float64     `json:"chance"`
}

// CaseDTO is a case together with its drop table, as served to clients.
type CaseDTO struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	PriceCents  int            `json:"price_cents"`
	ImageURL    string         `json:"image_url"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	Items       []WeightedItem `json:"items"`
}

// CreateItemInput captures a new catalog item.
type CreateItemInput struct {
	Name       string       `json:"name"`
	PriceCents int          `json:"price_cents"`
	ImageURL   string       `json:"image_url"`
	Rarity     enums.Rarity `json:"rarity"`
}

// CreateCaseEntryInput is one drop-table row of a new case.
type CreateCaseEntryInput struct {
	ItemID int64   `json:"item_id"`
	Chance float64 `json:"chance"`
}

// CreateCaseInput captures a new case and its drop table.
type CreateCaseInput struct {
	Name        string                 `json:"name"`
	PriceCents  int                    `json:"price_cents"`
	ImageURL    string                 `json:"image_url"`
	Description string                 `json:"description"`
	Entries     []CreateCaseEntryInput `json:"entries"`
}

func newCaseDTO(c models.Case, items []WeightedItem) CaseDTO {
	return CaseDTO{
		ID:          c.ID,
		Name:        c.Name,
		PriceCents:  c.PriceCents,
		ImageURL:    c.ImageURL,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		Items:       items,
	}
}
