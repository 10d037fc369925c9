package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// softDeleteOwned stamps deleted_at on every live row of model owned by userID
// and returns the affected ids.
func softDeleteOwned(ctx context.Context, db *gorm.DB, model any, userID string, at time.Time) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(model).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(model).Where("id IN ?", ids).Update("deleted_at", at).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// restoreOwned clears deleted_at for the given ids of userID, limited to rows
// deleted at or after since. It returns the restored ids.
func restoreOwned(ctx context.Context, db *gorm.DB, model any, userID string, ids []string, since time.Time) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	var restored []string
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := tx.Unscoped().Model(model).
			Where("user_id = ? AND id IN ? AND deleted_at IS NOT NULL AND deleted_at >= ?", userID, ids, since)
		if err := scope.Pluck("id", &restored).Error; err != nil {
			return err
		}
		if len(restored) == 0 {
			return nil
		}
		return tx.Unscoped().Model(model).Where("id IN ?", restored).Update("deleted_at", nil).Error
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}
