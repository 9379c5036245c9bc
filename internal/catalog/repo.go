package catalog

import (
	"context"

	"github.com/codecollab/casevault-backend/pkg/db/models"
	"github.com/codecollab/casevault-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository manages persistence for the case/item catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
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

// dropEntryRow is the flattened case_entries/items join row.
type dropEntryRow struct {
	ItemID     int64        `gorm:"column:item_id"`
	Name       string       `gorm:"column:name"`
	PriceCents int          `gorm:"column:price_cents"`
	ImageURL   string       `gorm:"column:image_url"`
	Rarity     enums.Rarity `gorm:"column:rarity"`
	Chance     float64      `gorm:"column:chance"`
}

// FindCase loads a single case by id.
func (r *Repository) FindCase(ctx context.Context, id int64) (*models.Case, error) {
	var c models.Case
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCases returns every case in the catalog ordered by id.
func (r *Repository) ListCases(ctx context.Context) ([]models.Case, error) {
	var cases []models.Case
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

// FindItem loads a single item by id.
func (r *Repository) FindItem(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CountItems returns how many of the given item ids exist.
func (r *Repository) CountItems(ctx context.Context, ids []int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListDropEntries returns the case's drop table joined to items, in the
// natural row order of the join table. Selection depends on this ordering.
func (r *Repository) ListDropEntries(ctx context.Context, caseID int64) ([]WeightedItem, error) {
	var rows []dropEntryRow
	if err := r.db.WithContext(ctx).
		Table("case_entries ce").
		Select("i.id AS item_id, i.name, i.price_cents, i.image_url, i.rarity, ce.chance").
		Joins("JOIN items i ON i.id = ce.item_id").
		Where("ce.case_id = ?", caseID).
		Order("ce.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]WeightedItem, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, WeightedItem{
			Item: models.Item{
				ID:         row.ItemID,
				Name:       row.Name,
				PriceCents: row.PriceCents,
				ImageURL:   row.ImageURL,
				Rarity:     row.Rarity,
			},
			Chance: row.Chance,
		})
	}
	return entries, nil
}

// CreateItem inserts a new catalog item.
func (r *Repository) CreateItem(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// CreateCase inserts a case together with its drop-table entries.
func (r *Repository) CreateCase(ctx context.Context, c *models.Case, entries []models.CaseEntry) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	for i := range entries {
		entries[i].CaseID = c.ID
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}
