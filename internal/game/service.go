package game

import (
	"context"
	"errors"

	"github.com/codecollab/casevault-backend/internal/catalog"
	"github.com/codecollab/casevault-backend/internal/inventory"
	"github.com/codecollab/casevault-backend/internal/profiles"
	"github.com/codecollab/casevault-backend/pkg/db/models"
	pkgerrors "github.com/codecollab/casevault-backend/pkg/errors"
	"github.com/codecollab/casevault-backend/pkg/logger"
	"github.com/codecollab/casevault-backend/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the case-opening transaction engine. Every operation runs as one
// atomic unit against the store; business-rule failures roll back cleanly.
type Service interface {
	OpenCase(ctx context.Context, userID string, caseID int64) (*OpenCaseResult, error)
	SellItem(ctx context.Context, userID string, recordID int64) (*SellItemResult, error)
	SellAllItems(ctx context.Context, userID string) (*SellAllResult, error)
}

// OpenCaseResult is the payload of a successful opening.
type OpenCaseResult struct {
	Item         models.Item            `json:"item"`
	Record       models.InventoryRecord `json:"record"`
	BalanceCents int                    `json:"balance_cents"`
	Profile      models.Profile         `json:"profile"`
}

// SellItemResult is the payload of a successful single sale.
type SellItemResult struct {
	BalanceCents    int `json:"balance_cents"`
	SoldAmountCents int `json:"sold_amount_cents"`
}

// SellAllResult is the payload of a sell-all, which may be a no-op.
type SellAllResult struct {
	BalanceCents     int `json:"balance_cents"`
	SoldCount        int `json:"sold_count"`
	TotalAmountCents int `json:"total_amount_cents"`
}

// ServiceParams groups dependencies for the engine.
type ServiceParams struct {
	ProfileRepo          *profiles.Repository
	CatalogRepo          *catalog.Repository
	InventoryRepo        *inventory.Repository
	Tx                   txRunner
	Metrics              *metrics.GameMetrics
	Logger               *logger.Logger
	StartingBalanceCents int
	Draw                 DrawFunc
}

type service struct {
	profileRepo     *profiles.Repository
	catalogRepo     *catalog.Repository
	inventoryRepo   *inventory.Repository
	tx              txRunner
	metrics         *metrics.GameMetrics
	logg            *logger.Logger
	startingBalance int
	draw            DrawFunc
}

// NewService builds the engine with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProfileRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.InventoryRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.StartingBalanceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "starting balance must be non-negative")
	}
	draw := params.Draw
	if draw == nil {
		draw = DefaultDraw
	}
	return &service{
		profileRepo:     params.ProfileRepo,
		catalogRepo:     params.CatalogRepo,
		inventoryRepo:   params.InventoryRepo,
		tx:              params.Tx,
		metrics:         params.Metrics,
		logg:            params.Logger,
		startingBalance: params.StartingBalanceCents,
		draw:            draw,
	}, nil
}

func (s *service) OpenCase(ctx context.Context, userID string, caseID int64) (*OpenCaseResult, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result OpenCaseResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)
		profileRepo := s.profileRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)

		c, err := catalogRepo.FindCase(ctx, caseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "case not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load case")
		}

		profile, err := profileRepo.GetOrCreate(ctx, userID, s.startingBalance)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
		}
		if profile.BalanceCents < c.PriceCents {
			return pkgerrors.New(pkgerrors.CodeInsufficientFunds, "insufficient funds").
				WithDetails(map[string]any{
					"balance_cents": profile.BalanceCents,
					"price_cents":   c.PriceCents,
				})
		}

		entries, err := catalogRepo.ListDropEntries(ctx, caseID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load drop table")
		}
		// Resolve before the debit so a misconfigured case rejects the
		// request without touching the balance.
		winner, err := ResolveDrop(entries, s.draw())
		if err != nil {
			return err
		}

		debited, err := profileRepo.DebitForOpen(ctx, profile.ID, c.PriceCents)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit balance")
		}
		if !debited {
			// A concurrent open spent the balance between the read and
			// the guarded update.
			return pkgerrors.New(pkgerrors.CodeInsufficientFunds, "insufficient funds")
		}

		record := models.InventoryRecord{
			UserID: userID,
			ItemID: winner.ID,
		}
		if err := inventoryRepo.Insert(ctx, &record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert inventory record")
		}

		if winner.PriceCents > profile.BestDropCents {
			if err := profileRepo.RaiseBestDrop(ctx, profile.ID, winner.PriceCents); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update best drop")
			}
		}

		updated, err := profileRepo.FindByUserID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload profile")
		}

		result = OpenCaseResult{
			Item:         winner,
			Record:       record,
			BalanceCents: updated.BalanceCents,
			Profile:      *updated,
		}
		return nil
	})
	if err != nil {
		s.observeOpenFailure(ctx, caseID, err)
		return nil, err
	}

	s.metrics.ObserveOpen(string(result.Item.Rarity), result.Item.PriceCents)
	return &result, nil
}

func (s *service) SellItem(ctx context.Context, userID string, recordID int64) (*SellItemResult, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result SellItemResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)
		profileRepo := s.profileRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)

		record, err := inventoryRepo.FindByID(ctx, recordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory record")
		}
		// Not-owned and already-sold collapse into not-found so callers
		// cannot probe other users' inventories.
		if record.UserID != userID || record.IsSold {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}

		item, err := catalogRepo.FindItem(ctx, record.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
		}

		sold, err := inventoryRepo.MarkSold(ctx, recordID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark record sold")
		}
		if !sold {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}

		profile, err := profileRepo.GetOrCreate(ctx, userID, s.startingBalance)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
		}
		if err := profileRepo.Credit(ctx, profile.ID, item.PriceCents); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit balance")
		}

		updated, err := profileRepo.FindByUserID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload profile")
		}

		result = SellItemResult{
			BalanceCents:    updated.BalanceCents,
			SoldAmountCents: item.PriceCents,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddSold("sell", 1)
	return &result, nil
}

func (s *service) SellAllItems(ctx context.Context, userID string) (*SellAllResult, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result SellAllResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		profileRepo := s.profileRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)

		rows, err := inventoryRepo.ListActiveForSale(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active inventory")
		}

		profile, err := profileRepo.GetOrCreate(ctx, userID, s.startingBalance)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
		}

		if len(rows) == 0 {
			result = SellAllResult{BalanceCents: profile.BalanceCents}
			return nil
		}

		ids := make([]int64, 0, len(rows))
		total := 0
		for _, row := range rows {
			ids = append(ids, row.RecordID)
			total += row.PriceCents
		}

		affected, err := inventoryRepo.MarkSoldBulk(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark records sold")
		}
		if affected != int64(len(ids)) {
			// A concurrent sale got to some rows first. Roll back and let
			// the caller retry against fresh state.
			return pkgerrors.New(pkgerrors.CodeConflict, "inventory changed concurrently")
		}

		if err := profileRepo.Credit(ctx, profile.ID, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit balance")
		}

		updated, err := profileRepo.FindByUserID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload profile")
		}

		result = SellAllResult{
			BalanceCents:     updated.BalanceCents,
			SoldCount:        len(ids),
			TotalAmountCents: total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddSold("sell_all", result.SoldCount)
	return &result, nil
}

// observeOpenFailure feeds the failure counters and flags catalog
// misconfiguration, which is an operational anomaly rather than user error.
func (s *service) observeOpenFailure(ctx context.Context, caseID int64, err error) {
	typed := pkgerrors.As(err)
	code := pkgerrors.CodeInternal
	if typed != nil {
		code = typed.Code()
	}
	s.metrics.IncOpenFailure(string(code))

	if code == pkgerrors.CodeInvalidDropTable && s.logg != nil {
		ctx = s.logg.WithCaseID(ctx, caseID)
		s.logg.Error(ctx, "case drop table misconfigured", err)
	}
}
