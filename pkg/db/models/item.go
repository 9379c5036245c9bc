package models

import (
	"time"

	"github.com/codecollab/casevault-backend/pkg/enums"
)

// Item is a catalog entry. Immutable after creation; referenced by case
// entries and inventory records but owned by the catalog.
type Item struct {
	ID         int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name       string       `gorm:"column:name;not null" json:"name"`
	PriceCents int          `gorm:"column:price_cents;not null" json:"price_cents"`
	ImageURL   string       `gorm:"column:image_url" json:"image_url"`
	Rarity     enums.Rarity `gorm:"column:rarity;not null" json:"rarity"`
	CreatedAt  time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
