package profiles

import (
	"context"
	"errors"

	"github.com/codecollab/casevault-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages persistence for user profiles.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a profile repository bound to the provided database.
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

// FindByUserID loads the profile for the given subject.
func (r *Repository) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetOrCreate loads the profile for userID, creating it with the starting
// balance on first access. Concurrent creations resolve through the unique
// index on user_id: the losing insert is a no-op and the row is re-read.
func (r *Repository) GetOrCreate(ctx context.Context, userID string, startingBalanceCents int) (*models.Profile, error) {
	profile, err := r.FindByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := models.Profile{
		UserID:       userID,
		BalanceCents: startingBalanceCents,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fresh).Error; err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, userID)
}

// DebitForOpen atomically debits the opening cost and counts the open. The
// balance guard in the WHERE clause is what serializes concurrent opens on
// one profile row: only updates that still see sufficient funds take effect.
// Returns false when the guard rejected the debit.
func (r *Repository) DebitForOpen(ctx context.Context, profileID int64, amountCents int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ? AND balance_cents >= ?", profileID, amountCents).
		Updates(map[string]any{
			"balance_cents": gorm.Expr("balance_cents - ?", amountCents),
			"total_opened":  gorm.Expr("total_opened + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Credit adds the given amount to the profile balance.
func (r *Repository) Credit(ctx context.Context, profileID int64, amountCents int) error {
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", profileID).
		Update("balance_cents", gorm.Expr("balance_cents + ?", amountCents)).
		Error
}

// RaiseBestDrop lifts best_drop_cents to priceCents if it is an improvement.
// The guard keeps the column a running maximum under concurrent opens.
func (r *Repository) RaiseBestDrop(ctx context.Context, profileID int64, priceCents int) error {
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ? AND best_drop_cents < ?", profileID, priceCents).
		Update("best_drop_cents", priceCents).
		Error
}
