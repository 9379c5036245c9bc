package models

import "time"

// Profile holds a user's wallet and lifetime opening statistics. One row per
// authenticated subject, created lazily on first access and never deleted.
// BalanceCents must be non-negative at every committed state.
type Profile struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID        string    `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	BalanceCents  int       `gorm:"column:balance_cents;not null;default:0" json:"balance_cents"`
	TotalOpened   int       `gorm:"column:total_opened;not null;default:0" json:"total_opened"`
	BestDropCents int       `gorm:"column:best_drop_cents;not null;default:0" json:"best_drop_cents"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
