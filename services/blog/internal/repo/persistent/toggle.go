package persistent

import (
	"context"

	"meow-site/services/blog/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reaction describes a like-style mark and the counter it maintains.
type reaction struct {
	mark      interface{}
	markWhere string
	markArgs  []interface{}
	counter   interface{}
	counterID string
	column    string
}

// toggle removes the mark if present, otherwise inserts it, and keeps the
// counter in step, all in one transaction. The counter never drops below
// zero.
func toggle(ctx context.Context, db *gorm.DB, rx reaction) (*entity.ToggleResult, error) {
	result := &entity.ToggleResult{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed := tx.Where(rx.markWhere, rx.markArgs...).Delete(rx.mark)
		if removed.Error != nil {
			return removed.Error
		}

		if removed.RowsAffected > 0 {
			err := tx.Model(rx.counter).
				Where("id = ? AND "+rx.column+" > 0", rx.counterID).
				UpdateColumn(rx.column, gorm.Expr(rx.column+" - 1")).Error
			if err != nil {
				return err
			}
		} else {
			result.Active = true
			added := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(rx.mark)
			if added.Error != nil {
				return added.Error
			}
			if added.RowsAffected > 0 {
				err := tx.Model(rx.counter).
					Where("id = ?", rx.counterID).
					UpdateColumn(rx.column, gorm.Expr(rx.column+" + 1")).Error
				if err != nil {
					return err
				}
			}
		}

		var counts []int
		if err := tx.Model(rx.counter).Where("id = ?", rx.counterID).Pluck(rx.column, &counts).Error; err != nil {
			return err
		}
		if len(counts) == 0 {
			return entity.ErrNotFound
		}
		result.Count = counts[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
