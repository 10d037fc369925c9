// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/habit-tracker-api/internal/database"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database and registers it as the
// package-level database. A single connection keeps every query on the same
// in-memory instance.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(models.All()...))
	database.SetDB(db)

	return db
}

// CreateHabit inserts an active daily habit created at createdAt.
func CreateHabit(t *testing.T, db *gorm.DB, userID, title string, createdAt time.Time) *models.Habit {
	t.Helper()

	habit := &models.Habit{
		UserID:    userID,
		Title:     title,
		Frequency: models.FrequencyDaily,
		IsActive:  true,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(habit).Error)
	return habit
}

// CreateLog inserts a log for habit on day.
func CreateLog(t *testing.T, db *gorm.DB, habit *models.Habit, day string, status models.LogStatus) *models.HabitLog {
	t.Helper()

	log := &models.HabitLog{
		HabitID: habit.ID,
		UserID:  habit.UserID,
		Date:    day,
		Status:  status,
	}
	if status == models.LogStatusCompleted {
		now := time.Now()
		log.CompletedAt = &now
	}
	require.NoError(t, db.Create(log).Error)
	return log
}

// CreateTask inserts a task with the given status.
func CreateTask(t *testing.T, db *gorm.DB, userID, title string, status models.TaskStatus) *models.Task {
	t.Helper()

	task := &models.Task{
		UserID:   userID,
		Title:    title,
		Priority: models.PriorityMedium,
		Status:   status,
	}
	if status == models.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
