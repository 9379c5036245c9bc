package controllers

import (
	"net/http"

	"github.com/codecollab/casevault-backend/api/responses"
	"github.com/codecollab/casevault-backend/api/validators"
	"github.com/codecollab/casevault-backend/internal/catalog"
	"github.com/codecollab/casevault-backend/pkg/enums"
	pkgerrors "github.com/codecollab/casevault-backend/pkg/errors"
	"github.com/codecollab/casevault-backend/pkg/logger"
)

type createItemPayload struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	PriceCents int    `json:"price_cents" validate:"min=0"`
	ImageURL   string `json:"image_url" validate:"max=2048"`
	Rarity     string `json:"rarity" validate:"required,oneof=common rare epic legendary"`
}

type createCaseEntryPayload struct {
	ItemID int64   `json:"item_id" validate:"required,min=1"`
	Chance float64 `json:"chance" validate:"min=0"`
}

type createCasePayload struct {
	Name        string                   `json:"name" validate:"required,min=1,max=200"`
	PriceCents  int                      `json:"price_cents" validate:"min=0"`
	ImageURL    string                   `json:"image_url" validate:"max=2048"`
	Description string                   `json:"description" validate:"max=2000"`
	Entries     []createCaseEntryPayload `json:"entries" validate:"required,min=1,dive"`
}

// AdminCreateItem adds a catalog item.
func AdminCreateItem(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.CreateItem(ctx, catalog.CreateItemInput{
			Name:       payload.Name,
			PriceCents: payload.PriceCents,
			ImageURL:   payload.ImageURL,
			Rarity:     enums.Rarity(payload.Rarity),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// AdminCreateCase adds a case with its drop table.
func AdminCreateCase(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createCasePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entries := make([]catalog.CreateCaseEntryInput, 0, len(payload.Entries))
		for _, entry := range payload.Entries {
			entries = append(entries, catalog.CreateCaseEntryInput{
				ItemID: entry.ItemID,
				Chance: entry.Chance,
			})
		}

		c, err := svc.CreateCase(ctx, catalog.CreateCaseInput{
			Name:        payload.Name,
			PriceCents:  payload.PriceCents,
			ImageURL:    payload.ImageURL,
			Description: payload.Description,
			Entries:     entries,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, c)
	}
}
