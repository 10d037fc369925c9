package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habit-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/habit-tracker-api/internal/errors"
	"github.com/yukikurage/habit-tracker-api/internal/middleware"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/services"
	"github.com/yukikurage/habit-tracker-api/internal/utils"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
	}
}

// ListTasks returns the current user's tasks
// Can filter by status and sort by due date (sort=due_date)
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var status *models.TaskStatus
	if raw := c.Query("status"); raw != "" {
		s := models.TaskStatus(raw)
		status = &s
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.tasks.ListTasks(c.Request.Context(), services.ListTasksInput{
		UserID:        userID,
		Status:        status,
		SortByDueDate: c.Query("sort") == "due_date",
		Page:          params.Page,
		PageSize:      params.PageSize,
		Location:      middleware.GetLocation(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// GetTask returns a specific task by ID
// Task is already loaded by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required,max=255"`
		Description string              `json:"description"`
		Priority    models.TaskPriority `json:"priority"`
		Status      models.TaskStatus   `json:"status"`
		DueDate     *string             `json:"due_date" binding:"omitempty,ymd"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), services.CreateTaskInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
		Location:    middleware.GetLocation(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates an existing task. Only fields present in the body are
// changed; an explicit null due_date clears it.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		respondBindError(c, err)
		return
	}

	input := services.UpdateTaskInput{Location: middleware.GetLocation(c)}
	var err error
	if input.Title, err = optionalString(rawReq, "title"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.Description, err = optionalString(rawReq, "description"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if priority, err := optionalString(rawReq, "priority"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	} else if priority != nil {
		p := models.TaskPriority(*priority)
		input.Priority = &p
	}
	if status, err := optionalString(rawReq, "status"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	} else if status != nil {
		s := models.TaskStatus(*status)
		input.Status = &s
	}
	if v, present := rawReq["due_date"]; present {
		// due_date was provided (might be null)
		if v == nil {
			input.ClearDueDate = true
		} else if input.DueDate, err = optionalString(rawReq, "due_date"); err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
	}

	updated, err := h.tasks.UpdateTask(c.Request.Context(), task.UserID, task.ID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// UpdateStatus moves a task between pending, in_progress and completed
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type UpdateStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "status is required")
		return
	}

	updated, err := h.tasks.UpdateStatus(c.Request.Context(), task.UserID, task.ID, req.Status, middleware.GetLocation(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), task.UserID, task.ID, middleware.GetLocation(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// SuggestTasks drafts tasks from free text using AI. Nothing is stored.
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	type SuggestTasksRequest struct {
		Text string `json:"text" binding:"required,max=5000"`
	}

	var req SuggestTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	drafts, err := h.tasks.GenerateTasks(c.Request.Context(), req.Text, middleware.GetLocation(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAIServiceNotConfigured),
			errors.Is(err, services.ErrAINoTasksGenerated),
			errors.Is(err, services.ErrAINoValidTasks):
			respondServiceError(c, err)
		default:
			apierrors.BadGateway(c, "Failed to generate tasks")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDraftsResponse(drafts))
}

// optionalString reads key from a raw JSON object. Missing or null keys
// yield nil.
func optionalString(raw map[string]any, key string) (*string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string", key)
	}
	return &s, nil
}
