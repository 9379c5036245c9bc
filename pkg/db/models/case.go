package models

import "time"

// Case is a purchasable container with a weighted drop table of items.
type Case struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	PriceCents  int       `gorm:"column:price_cents;not null" json:"price_cents"`
	ImageURL    string    `gorm:"column:image_url" json:"image_url"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
