package controllers

import (
	"net/http"

	"github.com/codecollab/casevault-backend/api/middleware"
	"github.com/codecollab/casevault-backend/api/responses"
	"github.com/codecollab/casevault-backend/api/validators"
	"github.com/codecollab/casevault-backend/internal/catalog"
	"github.com/codecollab/casevault-backend/internal/game"
	pkgerrors "github.com/codecollab/casevault-backend/pkg/errors"
	"github.com/codecollab/casevault-backend/pkg/logger"
)

// CasesList returns every case with its drop table.
func CasesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		cases, err := svc.ListCases(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cases)
	}
}

// CasesGet returns one case with its drop table.
func CasesGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.Int64Param(r, "caseId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		c, err := svc.GetCase(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, c)
	}
}

// CasesOpen debits the case price and awards a drop in one transaction.
func CasesOpen(svc game.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "game service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		id, err := validators.Int64Param(r, "caseId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.OpenCase(ctx, userID, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
