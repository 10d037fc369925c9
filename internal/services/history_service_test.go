package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/testutil"
)

type HistoryServiceTestSuite struct {
	suite.Suite
	f *fixture
}

func (suite *HistoryServiceTestSuite) SetupTest() {
	suite.f = newFixture(suite.T(), false)
	t := suite.T()

	habit := testutil.CreateHabit(t, suite.f.db, "alice", "Drink Water", fixedNow.AddDate(0, -3, 0))
	testutil.CreateLog(t, suite.f.db, habit, "2024-05-09", models.LogStatusCompleted)
	testutil.CreateLog(t, suite.f.db, habit, "2024-05-01", models.LogStatusCompleted)
	testutil.CreateLog(t, suite.f.db, habit, "2024-04-01", models.LogStatusMissed)

	other := testutil.CreateHabit(t, suite.f.db, "bob", "Read", fixedNow.AddDate(0, -3, 0))
	testutil.CreateLog(t, suite.f.db, other, "2024-05-09", models.LogStatusCompleted)

	for _, completedAt := range []time.Time{
		fixedNow.Add(-2 * time.Hour),
		fixedNow.AddDate(0, 0, -10),
		fixedNow.AddDate(0, -2, 0),
	} {
		entry := models.TaskHistory{
			UserID:      "alice",
			TaskID:      "task",
			Title:       "Archived",
			Priority:    models.PriorityMedium,
			CompletedAt: completedAt,
		}
		suite.Require().NoError(suite.f.db.Create(&entry).Error)
	}
}

func (suite *HistoryServiceTestSuite) query(r HistoryRange) HistoryQuery {
	return HistoryQuery{UserID: "alice", Range: r, Location: time.UTC}
}

func (suite *HistoryServiceTestSuite) TestHabitLogs_Ranges() {
	week, err := suite.f.history.HabitLogs(bg, suite.query(RangeWeek))
	suite.Require().NoError(err)
	suite.Len(week.Logs, 1)
	suite.Equal("2024-05-09", week.Logs[0].Date)
	suite.Require().NotNil(week.Logs[0].Habit)
	suite.Equal("Drink Water", week.Logs[0].Habit.Title)

	month, err := suite.f.history.HabitLogs(bg, suite.query(RangeMonth))
	suite.Require().NoError(err)
	suite.Len(month.Logs, 2)

	all, err := suite.f.history.HabitLogs(bg, suite.query(""))
	suite.Require().NoError(err)
	suite.Len(all.Logs, 3)
	suite.Equal(HistoryStats{Completed: 2, Missed: 1, Total: 3, CompletionRate: 67}, all.Stats)
}

func (suite *HistoryServiceTestSuite) TestHabitLogs_StatusFilterKeepsStats() {
	missed := models.LogStatusMissed
	query := suite.query(RangeAll)
	query.Status = &missed

	result, err := suite.f.history.HabitLogs(bg, query)
	suite.Require().NoError(err)
	suite.Len(result.Logs, 1)
	suite.Equal(3, result.Stats.Total)
	suite.Equal(2, result.Stats.Completed)

	bad := models.LogStatus("late")
	query.Status = &bad
	_, err = suite.f.history.HabitLogs(bg, query)
	suite.ErrorIs(err, ErrInvalidStatus)
}

func (suite *HistoryServiceTestSuite) TestHabitLogs_InvalidRange() {
	_, err := suite.f.history.HabitLogs(bg, suite.query("year"))
	suite.ErrorIs(err, ErrInvalidRange)

	_, err = suite.f.history.HabitLogs(bg, HistoryQuery{Range: RangeAll})
	suite.ErrorIs(err, ErrUserRequired)
}

func (suite *HistoryServiceTestSuite) TestFenceHidesOlderRecords() {
	fence := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	_, err := suite.f.settings.UpdateProfile(bg, "alice", UpdateProfileInput{HistoryStartedAt: &fence})
	suite.Require().NoError(err)

	all, err := suite.f.history.HabitLogs(bg, suite.query(RangeAll))
	suite.Require().NoError(err)
	suite.Len(all.Logs, 1)

	// the fence is later than the month window, so it wins
	month, err := suite.f.history.HabitLogs(bg, suite.query(RangeMonth))
	suite.Require().NoError(err)
	suite.Len(month.Logs, 1)

	tasks, err := suite.f.history.TaskHistory(bg, suite.query(RangeAll))
	suite.Require().NoError(err)
	suite.Len(tasks, 1)
}

func (suite *HistoryServiceTestSuite) TestTaskHistory_Ranges() {
	week, err := suite.f.history.TaskHistory(bg, suite.query(RangeWeek))
	suite.Require().NoError(err)
	suite.Len(week, 1)

	month, err := suite.f.history.TaskHistory(bg, suite.query(RangeMonth))
	suite.Require().NoError(err)
	suite.Len(month, 2)

	all, err := suite.f.history.TaskHistory(bg, suite.query(RangeAll))
	suite.Require().NoError(err)
	suite.Len(all, 3)
	suite.True(all[0].CompletedAt.After(all[1].CompletedAt))
}

func (suite *HistoryServiceTestSuite) TestDeleteTaskHistory() {
	all, err := suite.f.history.TaskHistory(bg, suite.query(RangeAll))
	suite.Require().NoError(err)

	suite.ErrorIs(suite.f.history.DeleteTaskHistory(bg, "bob", all[0].ID), ErrHistoryEntryNotFound)
	suite.Require().NoError(suite.f.history.DeleteTaskHistory(bg, "alice", all[0].ID))
	suite.ErrorIs(suite.f.history.DeleteTaskHistory(bg, "alice", all[0].ID), ErrHistoryEntryNotFound)

	remaining, err := suite.f.history.TaskHistory(bg, suite.query(RangeAll))
	suite.Require().NoError(err)
	suite.Len(remaining, 2)
}

func TestHistoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HistoryServiceTestSuite))
}
