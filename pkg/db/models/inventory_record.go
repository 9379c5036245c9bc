package models

import "time"

// InventoryRecord is one won item instance owned by a user. Sold records are
// retained as history and excluded from active-inventory queries.
type InventoryRecord struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"column:user_id;not null;index:idx_inventory_user_active,priority:1" json:"user_id"`
	ItemID     int64     `gorm:"column:item_id;not null" json:"item_id"`
	IsSold     bool      `gorm:"column:is_sold;not null;default:false;index:idx_inventory_user_active,priority:2" json:"is_sold"`
	AcquiredAt time.Time `gorm:"column:acquired_at;autoCreateTime" json:"acquired_at"`
}
