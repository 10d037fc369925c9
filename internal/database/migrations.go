package database

import (
	"fmt"

	"github.com/yukikurage/habit-tracker-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes creates the indexes declared on the models that the core's
// lookups depend on, skipping any that already exist.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		model any
		name  string
	}{
		// Backfill lookup and streak walk: (habit_id, date)
		{&models.HabitLog{}, "idx_habit_logs_habit_date"},
		// Today's logs per user: (user_id, date)
		{&models.HabitLog{}, "idx_habit_logs_user_date"},
		{&models.Habit{}, "UserID"},
		{&models.Task{}, "UserID"},
		{&models.Task{}, "Status"},
		{&models.Task{}, "DueDate"},
		{&models.TaskHistory{}, "UserID"},
		{&models.TaskHistory{}, "CompletedAt"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", zap.String("index", idx.name))
	}

	return nil
}
