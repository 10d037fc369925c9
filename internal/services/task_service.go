package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/constants"
	"github.com/yukikurage/habit-tracker-api/internal/events"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/repository"
	"github.com/yukikurage/habit-tracker-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrInvalidStatus          = errors.New("status must be pending, in_progress or completed")
	ErrInvalidPriority        = errors.New("priority must be low, medium or high")
	ErrInvalidDueDate         = errors.New("due date must be formatted as YYYY-MM-DD")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	progress    *ProgressService
	notifier    *events.Notifier
	aiService   *AIService
	seedSamples bool
	log         *zap.Logger
	now         func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	progress *ProgressService,
	notifier *events.Notifier,
	aiService *AIService,
	seedSamples bool,
	log *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		progress:    progress,
		notifier:    notifier,
		aiService:   aiService,
		seedSamples: seedSamples,
		log:         log,
		now:         time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID        string
	Status        *models.TaskStatus
	SortByDueDate bool
	Page          int
	PageSize      int
	Location      *time.Location
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID      string
	Title       string
	Description string
	Priority    models.TaskPriority
	Status      models.TaskStatus
	DueDate     *string
	Location    *time.Location
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Priority     *models.TaskPriority
	Status       *models.TaskStatus
	DueDate      *string
	ClearDueDate bool
	Location     *time.Location
}

// ListTasks returns the user's tasks. A user who has never had a task gets
// the sample set when seeding is enabled.
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	if input.UserID == "" {
		return nil, 0, ErrUserRequired
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}

	filter := repository.TaskFilter{
		UserID:        input.UserID,
		Status:        input.Status,
		SortByDueDate: input.SortByDueDate,
		Page:          input.Page,
		PageSize:      input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	if total > 0 || input.Status != nil || !s.seedSamples {
		return tasks, total, nil
	}

	seeded, err := s.seed(ctx, input.UserID, input.Location)
	if err != nil {
		s.log.Warn("failed to create sample tasks", zap.String("user_id", input.UserID), zap.Error(err))
		return tasks, total, nil
	}
	if !seeded {
		return tasks, total, nil
	}

	tasks, total, err = s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

func (s *TaskService) seed(ctx context.Context, userID string, loc *time.Location) (bool, error) {
	count, err := s.taskRepo.CountWithDeleted(ctx, userID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	now := s.now()
	dueIn := func(days int) *string {
		day := utils.AddDays(now, loc, days)
		return &day
	}

	tasks := []models.Task{
		{Title: "Review project documentation", Description: "Go through the project requirements and update documentation", Priority: models.PriorityHigh, Status: models.TaskStatusPending, DueDate: dueIn(1)},
		{Title: "Team meeting preparation", Description: "Prepare agenda and notes for the weekly team meeting", Priority: models.PriorityMedium, Status: models.TaskStatusPending},
		{Title: "Code review", Description: "Review pull requests and provide feedback", Priority: models.PriorityHigh, Status: models.TaskStatusInProgress, DueDate: dueIn(0)},
		{Title: "Update dependencies", Description: "Check and update packages to latest versions", Priority: models.PriorityLow, Status: models.TaskStatusPending},
		{Title: "Write unit tests", Description: "Add test coverage for new features", Priority: models.PriorityMedium, Status: models.TaskStatusPending, DueDate: dueIn(2)},
	}
	for i := range tasks {
		tasks[i].UserID = userID
	}

	if err := s.taskRepo.CreateBatch(ctx, tasks); err != nil {
		return false, err
	}
	return true, nil
}

// GetTask returns a task owned by userID
func (s *TaskService) GetTask(ctx context.Context, userID, id string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask creates a new task with validation
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if input.UserID == "" {
		return nil, ErrUserRequired
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.DueDate != nil && !utils.IsDay(*input.DueDate) {
		return nil, ErrInvalidDueDate
	}

	task := &models.Task{
		UserID:      input.UserID,
		Title:       title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      models.TaskStatusPending,
		DueDate:     input.DueDate,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if input.Status != models.TaskStatusPending {
		if err := s.transition(ctx, task, input.Status); err != nil {
			return nil, err
		}
	}

	s.afterChange(ctx, task, input.Location, input.Status == models.TaskStatusCompleted)
	return task, nil
}

// UpdateTask updates an existing task. A status change follows the same
// rules as UpdateStatus.
func (s *TaskService) UpdateTask(ctx context.Context, userID, id string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		if !utils.IsDay(*input.DueDate) {
			return nil, ErrInvalidDueDate
		}
		task.DueDate = input.DueDate
	}

	if input.Status != nil && *input.Status != task.Status {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		completing := *input.Status == models.TaskStatusCompleted
		if err := s.transition(ctx, task, *input.Status); err != nil {
			return nil, err
		}
		s.afterChange(ctx, task, input.Location, completing)
		return task, nil
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// UpdateStatus moves a task to status. Entering completed stamps completed_at
// and archives a history snapshot in the same transaction; leaving completed
// clears completed_at.
func (s *TaskService) UpdateStatus(ctx context.Context, userID, id string, status models.TaskStatus, loc *time.Location) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if task.Status == status {
		return task, nil
	}

	if err := s.transition(ctx, task, status); err != nil {
		return nil, err
	}
	s.afterChange(ctx, task, loc, status == models.TaskStatusCompleted)
	return task, nil
}

func (s *TaskService) transition(ctx context.Context, task *models.Task, status models.TaskStatus) error {
	task.Status = status

	if status != models.TaskStatusCompleted {
		task.CompletedAt = nil
		if err := s.taskRepo.Update(ctx, task); err != nil {
			return fmt.Errorf("failed to update task status: %w", err)
		}
		return nil
	}

	completedAt := s.now()
	task.CompletedAt = &completedAt
	snapshot := models.SnapshotTask(*task, completedAt)
	if err := s.taskRepo.CompleteWithSnapshot(ctx, task, &snapshot); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	return nil
}

// afterChange re-emits progress and announces completions.
func (s *TaskService) afterChange(ctx context.Context, task *models.Task, loc *time.Location, completed bool) {
	if s.progress != nil {
		if _, err := s.progress.Summarize(ctx, task.UserID, loc); err != nil {
			s.log.Warn("failed to refresh progress", zap.String("user_id", task.UserID), zap.Error(err))
		}
	}
	if completed {
		s.notifier.ItemCompleted(ctx, task.UserID, events.ItemTask, task.ID)
	}
}

// DeleteTask soft deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, userID, id string, loc *time.Location) error {
	if err := s.taskRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if s.progress != nil {
		if _, err := s.progress.Summarize(ctx, userID, loc); err != nil {
			s.log.Warn("failed to refresh progress", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return nil
}

// GenerateTasks uses AI to draft tasks from free text. Drafts are not stored.
func (s *TaskService) GenerateTasks(ctx context.Context, text string, loc *time.Location) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, text, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	yesterday := utils.Yesterday(s.now(), loc)
	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}

		if !models.TaskPriority(aiTask.Priority).Valid() {
			aiTask.Priority = string(models.PriorityMedium)
		}

		if aiTask.DueDate != nil {
			if !utils.IsDay(*aiTask.DueDate) || *aiTask.DueDate < yesterday {
				aiTask.DueDate = nil
			}
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}
