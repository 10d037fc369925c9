package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/habit-tracker-api/internal/events"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/testutil"
)

func TestSummarize_RoundsHalfUp(t *testing.T) {
	f := newFixture(t, false)
	created := fixedNow.AddDate(0, 0, -3)

	for i, title := range []string{"Drink Water", "Read", "Walk", "Stretch"} {
		habit := testutil.CreateHabit(t, f.db, "alice", title, created)
		if i < 3 {
			testutil.CreateLog(t, f.db, habit, "2024-05-10", models.LogStatusCompleted)
		}
	}
	testutil.CreateTask(t, f.db, "alice", "one", models.TaskStatusCompleted)
	testutil.CreateTask(t, f.db, "alice", "two", models.TaskStatusCompleted)
	testutil.CreateTask(t, f.db, "alice", "three", models.TaskStatusPending)
	testutil.CreateTask(t, f.db, "alice", "four", models.TaskStatusInProgress)

	sub := f.bus.Subscribe("alice")
	defer sub.Close()

	summary, err := f.progress.Summarize(bg, "alice", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-10", summary.Date)
	assert.Equal(t, 4, summary.Progress.HabitsTotal)
	assert.Equal(t, 3, summary.Progress.HabitsCompleted)
	assert.Equal(t, 4, summary.Progress.TasksTotal)
	assert.Equal(t, 2, summary.Progress.TasksCompleted)
	// 5 of 8 is 62.5
	assert.Equal(t, 63, summary.Progress.Percentage)
	assert.Len(t, summary.Logs, 3)

	evs := drain(sub)
	require.Len(t, evs, 1)
	assert.Equal(t, events.KindProgressUpdated, evs[0].Kind)
	require.NotNil(t, evs[0].Percentage)
	assert.Equal(t, 63, *evs[0].Percentage)
}

func TestSummarize_IgnoresInactiveHabits(t *testing.T) {
	f := newFixture(t, false)

	active := testutil.CreateHabit(t, f.db, "alice", "Drink Water", fixedNow.AddDate(0, 0, -1))
	paused := testutil.CreateHabit(t, f.db, "alice", "Meditate", fixedNow.AddDate(0, 0, -1))
	require.NoError(t, f.db.Model(paused).Update("is_active", false).Error)
	testutil.CreateLog(t, f.db, active, "2024-05-10", models.LogStatusCompleted)

	summary, err := f.progress.Summarize(bg, "alice", time.UTC)
	require.NoError(t, err)
	assert.Len(t, summary.Habits, 1)
	assert.Equal(t, 100, summary.Progress.Percentage)
}

func TestSummarize_EmptyDayIsZero(t *testing.T) {
	f := newFixture(t, false)

	summary, err := f.progress.Summarize(bg, "alice", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Progress.Percentage)
	assert.Empty(t, summary.Habits)
	assert.Empty(t, summary.Tasks)
}

func TestLoadToday_RunsMaintenanceFirst(t *testing.T) {
	f := newFixture(t, false)

	habit := testutil.CreateHabit(t, f.db, "alice", "Drink Water", fixedNow.AddDate(0, 0, -5))
	testutil.CreateLog(t, f.db, habit, "2024-05-08", models.LogStatusCompleted)
	testutil.CreateLog(t, f.db, habit, "2024-05-07", models.LogStatusCompleted)
	require.NoError(t, f.db.Model(habit).Updates(map[string]any{"current_streak": 2, "best_streak": 2}).Error)

	summary, err := f.progress.LoadToday(bg, "alice", time.UTC)
	require.NoError(t, err)

	backfilled, err := f.logRepo.FindByDate(bg, habit.ID, "2024-05-09")
	require.NoError(t, err)
	assert.Equal(t, models.LogStatusMissed, backfilled.Status)

	require.Len(t, summary.Habits, 1)
	assert.Equal(t, 0, summary.Habits[0].CurrentStreak)
	assert.Equal(t, 2, summary.Habits[0].BestStreak)
	assert.Equal(t, 0, summary.Progress.Percentage)
}

func TestLoadToday_RequiresUser(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.progress.LoadToday(bg, "", time.UTC)
	assert.ErrorIs(t, err, ErrUserRequired)
}
