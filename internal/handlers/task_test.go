package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/habit-tracker-api/internal/dto"
	"github.com/yukikurage/habit-tracker-api/internal/models"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	env *apiEnv
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.env = setupAPI(suite.T())
}

func (suite *TaskHandlerTestSuite) create(body map[string]any) dto.TaskDTO {
	w := suite.env.do(suite.T(), "alice", http.MethodPost, "/api/tasks", body)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.TaskDTO](suite.T(), w)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	task := suite.create(map[string]any{
		"title":    "Write report",
		"priority": "high",
		"due_date": "2030-01-15",
	})

	suite.Equal("Write report", task.Title)
	suite.Equal(models.PriorityHigh, task.Priority)
	suite.Equal(models.TaskStatusPending, task.Status)
	suite.Require().NotNil(task.DueDate)
	suite.Equal("2030-01-15", *task.DueDate)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Validation() {
	cases := []map[string]any{
		{},
		{"title": "x", "due_date": "15/01/2030"},
		{"title": "x", "priority": "urgent"},
		{"title": "x", "status": "done"},
	}
	for _, body := range cases {
		w := suite.env.do(suite.T(), "alice", http.MethodPost, "/api/tasks", body)
		suite.Equal(http.StatusBadRequest, w.Code, body)
	}
}

func (suite *TaskHandlerTestSuite) TestListTasks_FilterSortAndPage() {
	suite.create(map[string]any{"title": "no due"})
	suite.create(map[string]any{"title": "later", "due_date": "2030-02-01"})
	suite.create(map[string]any{"title": "sooner", "due_date": "2030-01-01", "status": "in_progress"})

	w := suite.env.do(suite.T(), "alice", http.MethodGet, "/api/tasks?sort=due_date", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	list := decode[dto.TaskListResponse](suite.T(), w)
	suite.Require().Len(list.Tasks, 3)
	suite.Equal("sooner", list.Tasks[0].Title)
	suite.Equal("no due", list.Tasks[2].Title)
	suite.Equal(int64(3), list.Pagination.Total)

	w = suite.env.do(suite.T(), "alice", http.MethodGet, "/api/tasks?status=in_progress", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	list = decode[dto.TaskListResponse](suite.T(), w)
	suite.Require().Len(list.Tasks, 1)
	suite.Equal("sooner", list.Tasks[0].Title)

	w = suite.env.do(suite.T(), "alice", http.MethodGet, "/api/tasks?page=2&page_size=2", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	list = decode[dto.TaskListResponse](suite.T(), w)
	suite.Len(list.Tasks, 1)
	suite.Equal(2, list.Pagination.TotalPages)

	w = suite.env.do(suite.T(), "alice", http.MethodGet, "/api/tasks?status=archived", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), "bob", http.MethodGet, "/api/tasks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Empty(decode[dto.TaskListResponse](suite.T(), w).Tasks)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_PartialAndNullDueDate() {
	task := suite.create(map[string]any{"title": "Ship", "description": "v1", "due_date": "2030-01-01"})

	w := suite.env.do(suite.T(), "alice", http.MethodPatch, "/api/tasks/"+task.ID, map[string]any{"title": "Ship v2"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	updated := decode[dto.TaskDTO](suite.T(), w)
	suite.Equal("Ship v2", updated.Title)
	suite.Equal("v1", updated.Description)
	suite.NotNil(updated.DueDate)

	w = suite.env.do(suite.T(), "alice", http.MethodPatch, "/api/tasks/"+task.ID, map[string]any{"due_date": nil})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Nil(decode[dto.TaskDTO](suite.T(), w).DueDate)

	w = suite.env.do(suite.T(), "alice", http.MethodPatch, "/api/tasks/"+task.ID, map[string]any{"title": 42})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), "alice", http.MethodPatch, "/api/tasks/"+task.ID, map[string]any{"title": "  "})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateStatus_ArchivesCompletion() {
	task := suite.create(map[string]any{"title": "Ship"})

	w := suite.env.do(suite.T(), "alice", http.MethodPatch, "/api/tasks/"+task.ID+"/status", map[string]any{"status": "completed"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	completed := decode[dto.TaskDTO](suite.T(), w)
	suite.Equal(models.TaskStatusCompleted, completed.Status)
	suite.NotNil(completed.CompletedAt)

	w = suite.env.do(suite.T(), "alice", http.MethodGet, "/api/history/tasks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	history := decode[dto.TaskHistoryResponse](suite.T(), w)
	suite.Require().Len(history.Entries, 1)
	suite.Equal(task.ID, history.Entries[0].TaskID)

	w = suite.env.do(suite.T(), "alice", http.MethodPatch, "/api/tasks/"+task.ID+"/status", map[string]any{"status": "pending"})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Nil(decode[dto.TaskDTO](suite.T(), w).CompletedAt)

	w = suite.env.do(suite.T(), "alice", http.MethodPatch, "/api/tasks/"+task.ID+"/status", map[string]any{})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestOwnership() {
	task := suite.create(map[string]any{"title": "Private"})

	w := suite.env.do(suite.T(), "bob", http.MethodGet, "/api/tasks/"+task.ID, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.do(suite.T(), "bob", http.MethodDelete, "/api/tasks/"+task.ID, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.do(suite.T(), "alice", http.MethodDelete, "/api/tasks/"+task.ID, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.env.do(suite.T(), "alice", http.MethodGet, "/api/tasks/"+task.ID, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestSuggestTasks_NotConfigured() {
	w := suite.env.do(suite.T(), "alice", http.MethodPost, "/api/tasks/suggest", map[string]any{"text": "buy milk tomorrow"})
	suite.Equal(http.StatusServiceUnavailable, w.Code)

	w = suite.env.do(suite.T(), "alice", http.MethodPost, "/api/tasks/suggest", map[string]any{})
	suite.Equal(http.StatusBadRequest, w.Code)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
