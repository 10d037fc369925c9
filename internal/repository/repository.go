package repository

import (
	"context"
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/models"
)

// HabitRepository defines the interface for habit data access
type HabitRepository interface {
	// Create creates a new habit
	Create(ctx context.Context, habit *models.Habit) error

	// CreateBatch inserts several habits in one statement
	CreateBatch(ctx context.Context, habits []models.Habit) error

	// FindByID finds a habit owned by userID
	FindByID(ctx context.Context, userID, id string) (*models.Habit, error)

	// ListByUser lists every habit of a user, newest first
	ListByUser(ctx context.Context, userID string) ([]models.Habit, error)

	// ListActive lists the user's active habits
	ListActive(ctx context.Context, userID string) ([]models.Habit, error)

	// ListActiveDaily lists the user's active habits with daily frequency
	ListActiveDaily(ctx context.Context, userID string) ([]models.Habit, error)

	// Update saves all editable fields of a habit
	Update(ctx context.Context, habit *models.Habit) error

	// UpdateStreaks writes only the aggregate streak fields
	UpdateStreaks(ctx context.Context, habitID string, current, best int) error

	// ResetStreaks zeroes the streak fields of every habit of a user
	ResetStreaks(ctx context.Context, userID string) ([]string, error)

	// Delete soft deletes a habit together with its logs
	Delete(ctx context.Context, userID, id string) error

	// Count counts the user's habits
	Count(ctx context.Context, userID string) (int64, error)

	// CountWithDeleted counts the user's habits including soft deleted ones
	CountWithDeleted(ctx context.Context, userID string) (int64, error)
}

// HabitLogRepository defines the interface for habit log data access
type HabitLogRepository interface {
	// ListRecent returns up to limit logs of a habit, most recent date first
	ListRecent(ctx context.Context, habitID string, limit int) ([]models.HabitLog, error)

	// FindByDate finds the log of a habit for a calendar day
	FindByDate(ctx context.Context, habitID, date string) (*models.HabitLog, error)

	// Create inserts a log
	Create(ctx context.Context, log *models.HabitLog) error

	// Update saves a log in place
	Update(ctx context.Context, log *models.HabitLog) error

	// ListByUserAndDate returns all of a user's logs for a calendar day
	ListByUserAndDate(ctx context.Context, userID, date string) ([]models.HabitLog, error)

	// List returns logs matching filter with their habit preloaded, most recent first
	List(ctx context.Context, filter HabitLogFilter) ([]models.HabitLog, error)

	// SoftDeleteByUser marks every live log of a user deleted at the given time
	SoftDeleteByUser(ctx context.Context, userID string, at time.Time) ([]string, error)

	// Restore undeletes logs deleted at or after since
	Restore(ctx context.Context, userID string, ids []string, since time.Time) ([]string, error)
}

// HabitLogFilter holds filtering options for listing habit logs
type HabitLogFilter struct {
	UserID   string
	HabitID  string
	Status   *models.LogStatus
	FromDate string
	Limit    int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// CreateBatch inserts several tasks in one statement
	CreateBatch(ctx context.Context, tasks []models.Task) error

	// FindByID finds a task owned by userID
	FindByID(ctx context.Context, userID, id string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(ctx context.Context, task *models.Task) error

	// CompleteWithSnapshot saves a completed task and archives its snapshot atomically
	CompleteWithSnapshot(ctx context.Context, task *models.Task, snapshot *models.TaskHistory) error

	// Delete soft deletes a task
	Delete(ctx context.Context, userID, id string) error

	// SoftDeleteByUser marks every live task of a user deleted at the given time
	SoftDeleteByUser(ctx context.Context, userID string, at time.Time) ([]string, error)

	// Restore undeletes tasks deleted at or after since
	Restore(ctx context.Context, userID string, ids []string, since time.Time) ([]string, error)

	// CountWithDeleted counts the user's tasks including soft deleted ones
	CountWithDeleted(ctx context.Context, userID string) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID        string
	Status        *models.TaskStatus
	SortByDueDate bool
	Page          int
	PageSize      int
}

// TaskHistoryRepository defines the interface for archived task snapshots
type TaskHistoryRepository interface {
	// List returns snapshots matching filter, most recently completed first
	List(ctx context.Context, filter TaskHistoryFilter) ([]models.TaskHistory, error)

	// Delete soft deletes a single snapshot
	Delete(ctx context.Context, userID, id string) error

	SoftDeleteByUser(ctx context.Context, userID string, at time.Time) ([]string, error)

	Restore(ctx context.Context, userID string, ids []string, since time.Time) ([]string, error)
}

// TaskHistoryFilter holds filtering options for listing task history
type TaskHistoryFilter struct {
	UserID        string
	CompletedFrom *time.Time
	Limit         int
}

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	// FindByID finds a profile by user id
	FindByID(ctx context.Context, id string) (*models.Profile, error)

	// FirstOrCreate loads the profile with profile.ID, creating it from profile when missing
	FirstOrCreate(ctx context.Context, profile *models.Profile) error

	// Update saves a profile
	Update(ctx context.Context, profile *models.Profile) error

	// ListIDs returns every profile id
	ListIDs(ctx context.Context) ([]string, error)
}
