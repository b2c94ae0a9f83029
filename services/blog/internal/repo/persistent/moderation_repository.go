package persistent

import (
	"context"
	"time"

	"meow-site/pkg/models"
	"meow-site/services/blog/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ModerationRepository interface {
	Get(ctx context.Context, accountID string) (*entity.ModerationState, error)
	// Modify locks the row, applies fn and persists the result. An error from
	// fn rolls the transaction back and is returned unchanged.
	Modify(ctx context.Context, accountID string, fn func(*entity.ModerationState) error) (*entity.ModerationState, error)
	// ClearExpired clears sanctions of one account whose deadline is at or
	// before now, using conditional updates.
	ClearExpired(ctx context.Context, accountID string, now time.Time) (mute, ban bool, err error)
	// ClearAllExpired does the same for every account.
	ClearAllExpired(ctx context.Context, now time.Time) (mutes, bans int64, err error)
}

type moderationRepository struct {
	db *gorm.DB
}

func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) Get(ctx context.Context, accountID string) (*entity.ModerationState, error) {
	var state models.ModerationState
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&state).Error; err != nil {
		return nil, notFound(err)
	}
	return ToModerationEntity(&state), nil
}

func (r *moderationRepository) Modify(ctx context.Context, accountID string, fn func(*entity.ModerationState) error) (*entity.ModerationState, error) {
	var result *entity.ModerationState

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var state models.ModerationState
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account_id = ?", accountID).
			First(&state).Error
		if err != nil {
			return notFound(err)
		}

		current := ToModerationEntity(&state)
		if err := fn(current); err != nil {
			return err
		}

		updated := ToModerationModel(current)
		if err := tx.Model(&models.ModerationState{}).
			Where("account_id = ?", accountID).
			Updates(moderationColumns(updated)).Error; err != nil {
			return err
		}

		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func clearedMute() map[string]interface{} {
	return map[string]interface{}{"muted": false, "mute_until": nil, "mute_reason": "", "muted_by": nil}
}

func clearedBan() map[string]interface{} {
	return map[string]interface{}{"banned": false, "ban_until": nil, "ban_reason": "", "banned_by": nil}
}

const (
	muteExpiredCond = "muted = ? AND mute_until IS NOT NULL AND mute_until <= ?"
	banExpiredCond  = "banned = ? AND ban_until IS NOT NULL AND ban_until <= ?"
)

func (r *moderationRepository) ClearExpired(ctx context.Context, accountID string, now time.Time) (bool, bool, error) {
	now = now.UTC()
	db := r.db.WithContext(ctx)

	mute := db.Model(&models.ModerationState{}).
		Where("account_id = ? AND "+muteExpiredCond, accountID, true, now).
		Updates(clearedMute())
	if mute.Error != nil {
		return false, false, mute.Error
	}

	ban := db.Model(&models.ModerationState{}).
		Where("account_id = ? AND "+banExpiredCond, accountID, true, now).
		Updates(clearedBan())
	if ban.Error != nil {
		return false, false, ban.Error
	}

	return mute.RowsAffected > 0, ban.RowsAffected > 0, nil
}

func (r *moderationRepository) ClearAllExpired(ctx context.Context, now time.Time) (int64, int64, error) {
	now = now.UTC()
	db := r.db.WithContext(ctx)

	mute := db.Model(&models.ModerationState{}).Where(muteExpiredCond, true, now).Updates(clearedMute())
	if mute.Error != nil {
		return 0, 0, mute.Error
	}

	ban := db.Model(&models.ModerationState{}).Where(banExpiredCond, true, now).Updates(clearedBan())
	if ban.Error != nil {
		return 0, 0, ban.Error
	}

	return mute.RowsAffected, ban.RowsAffected, nil
}
