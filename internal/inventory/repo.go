package inventory

import (
	"context"
	"time"

	"github.com/codecollab/casevault-backend/pkg/db/models"
	"github.com/codecollab/casevault-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository manages persistence for inventory records.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// OwnedItemRow is an active inventory record joined to its item.
type OwnedItemRow struct {
	RecordID   int64        `gorm:"column:record_id" json:"record_id"`
	ItemID     int64        `gorm:"column:item_id" json:"item_id"`
	Name       string       `gorm:"column:name" json:"name"`
	PriceCents int          `gorm:"column:price_cents" json:"price_cents"`
	ImageURL   string       `gorm:"column:image_url" json:"image_url"`
	Rarity     enums.Rarity `gorm:"column:rarity" json:"rarity"`
	AcquiredAt time.Time    `gorm:"column:acquired_at" json:"acquired_at"`
}

// SaleRow carries the fields sell-all needs per active record.
type SaleRow struct {
	RecordID   int64 `gorm:"column:record_id"`
	PriceCents int   `gorm:"column:price_cents"`
}

// Insert stores a freshly won record.
func (r *Repository) Insert(ctx context.Context, record *models.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByID loads a single record regardless of sold state.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListActiveByUser returns the user's unsold records joined to item data,
// newest first.
func (r *Repository) ListActiveByUser(ctx context.Context, userID string) ([]OwnedItemRow, error) {
	var rows []OwnedItemRow
	if err := r.db.WithContext(ctx).
		Table("inventory_records ir").
		Select("ir.id AS record_id, i.id AS item_id, i.name, i.price_cents, i.image_url, i.rarity, ir.acquired_at").
		Joins("JOIN items i ON i.id = ir.item_id").
		Where("ir.user_id = ? AND ir.is_sold = ?", userID, false).
		Order("ir.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActiveForSale returns record ids and prices for every unsold record.
func (r *Repository) ListActiveForSale(ctx context.Context, userID string) ([]SaleRow, error) {
	var rows []SaleRow
	if err := r.db.WithContext(ctx).
		Table("inventory_records ir").
		Select("ir.id AS record_id, i.price_cents").
		Joins("JOIN items i ON i.id = ir.item_id").
		Where("ir.user_id = ? AND ir.is_sold = ?", userID, false).
		Order("ir.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkSold flips is_sold for one owned, unsold record. The guard makes a
// double sell lose the race instead of double crediting.
func (r *Repository) MarkSold(ctx context.Context, id int64, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("id = ? AND user_id = ? AND is_sold = ?", id, userID, false).
		Update("is_sold", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkSoldBulk flips is_sold for the given records in one statement and
// reports how many rows the guard let through.
func (r *Repository) MarkSoldBulk(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("id IN ? AND is_sold = ?", ids, false).
		Update("is_sold", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
