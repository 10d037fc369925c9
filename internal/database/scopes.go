package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/habit-tracker-api/internal/utils"
)

// Paginate applies pagination to a GORM query. Disabled params leave the
// query untouched.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !params.Enabled() {
			return db
		}
		return db.Offset(params.Offset()).Limit(params.PageSize)
	}
}

// OwnedBy restricts a query to rows belonging to userID.
func OwnedBy(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
