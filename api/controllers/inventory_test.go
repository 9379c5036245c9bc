package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codecollab/casevault-backend/api/middleware"
	"github.com/codecollab/casevault-backend/internal/game"
	"github.com/codecollab/casevault-backend/internal/inventory"
	pkgerrors "github.com/codecollab/casevault-backend/pkg/errors"
	"github.com/codecollab/casevault-backend/pkg/types"
)

type stubInventoryService struct {
	listFn func(ctx context.Context, userID string) ([]inventory.OwnedItemRow, error)
}

func (s stubInventoryService) ListActive(ctx context.Context, userID string) ([]inventory.OwnedItemRow, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID)
	}
	return []inventory.OwnedItemRow{}, nil
}

func TestInventoryListReturnsRows(t *testing.T) {
	svc := stubInventoryService{
		listFn: func(ctx context.Context, userID string) ([]inventory.OwnedItemRow, error) {
			return []inventory.OwnedItemRow{
				{RecordID: 11, Name: "Rusty Blade", PriceCents: 50, AcquiredAt: time.Now()},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
	resp := httptest.NewRecorder()
	InventoryList(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	rows := body.Data.([]any)
	if len(rows) != 1 {
		t.Fatalf("expected one row got %d", len(rows))
	}
}

func TestInventoryListRequiresUserContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	resp := httptest.NewRecorder()
	InventoryList(stubInventoryService{}, nil)(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestInventorySellReturnsBalance(t *testing.T) {
	var gotRecord int64
	svc := stubGameService{
		sellFn: func(ctx context.Context, userID string, recordID int64) (*game.SellItemResult, error) {
			gotRecord = recordID
			return &game.SellItemResult{BalanceCents: 10200, SoldAmountCents: 200}, nil
		},
	}

	req := requestWithParam(http.MethodPost, "/api/v1/inventory/15/sell", "recordId", "15")
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
	resp := httptest.NewRecorder()
	InventorySell(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotRecord != 15 {
		t.Fatalf("expected record 15 got %d", gotRecord)
	}
}

func TestInventorySellMapsNotFound(t *testing.T) {
	svc := stubGameService{
		sellFn: func(ctx context.Context, userID string, recordID int64) (*game.SellItemResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		},
	}

	req := requestWithParam(http.MethodPost, "/api/v1/inventory/15/sell", "recordId", "15")
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
	resp := httptest.NewRecorder()
	InventorySell(svc, nil)(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestInventorySellAllReportsTotals(t *testing.T) {
	svc := stubGameService{
		sellAllFn: func(ctx context.Context, userID string) (*game.SellAllResult, error) {
			return &game.SellAllResult{BalanceCents: 11000, SoldCount: 4, TotalAmountCents: 1000}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/sell-all", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
	resp := httptest.NewRecorder()
	InventorySellAll(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	data := body.Data.(map[string]any)
	if data["sold_count"].(float64) != 4 {
		t.Fatalf("unexpected sold count %v", data["sold_count"])
	}
}
