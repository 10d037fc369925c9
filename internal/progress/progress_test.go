package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/habit-tracker-api/internal/models"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 0, Percentage(0, 5))
	assert.Equal(t, 63, Percentage(5, 8))
	assert.Equal(t, 100, Percentage(10, 10))
	// 1/8 = 12.5 rounds up
	assert.Equal(t, 13, Percentage(1, 8))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 100, Percentage(12, 10))
}

func habits(ids ...string) []models.Habit {
	out := make([]models.Habit, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Habit{ID: id})
	}
	return out
}

func tasks(statuses ...models.TaskStatus) []models.Task {
	out := make([]models.Task, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, models.Task{Status: status})
	}
	return out
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, nil, nil)
	assert.Equal(t, Snapshot{}, s)
}

func TestCompute_Mixed(t *testing.T) {
	logs := LogsByHabit([]models.HabitLog{
		{HabitID: "h1", Status: models.LogStatusCompleted},
		{HabitID: "h2", Status: models.LogStatusCompleted},
		{HabitID: "h3", Status: models.LogStatusMissed},
	})
	s := Compute(
		habits("h1", "h2", "h3"),
		logs,
		tasks(models.TaskStatusCompleted, models.TaskStatusCompleted, models.TaskStatusCompleted, models.TaskStatusPending, models.TaskStatusInProgress),
	)

	assert.Equal(t, 3, s.HabitsTotal)
	assert.Equal(t, 2, s.HabitsCompleted)
	assert.Equal(t, 5, s.TasksTotal)
	assert.Equal(t, 3, s.TasksCompleted)
	assert.Equal(t, 63, s.Percentage)
}

func TestCompute_AllDone(t *testing.T) {
	logs := LogsByHabit([]models.HabitLog{
		{HabitID: "a", Status: models.LogStatusCompleted},
		{HabitID: "b", Status: models.LogStatusCompleted},
		{HabitID: "c", Status: models.LogStatusCompleted},
		{HabitID: "d", Status: models.LogStatusCompleted},
	})
	done := models.TaskStatusCompleted
	s := Compute(habits("a", "b", "c", "d"), logs, tasks(done, done, done, done, done, done))
	assert.Equal(t, 100, s.Percentage)
}

func TestCompute_IgnoresLogsOfUnlistedHabits(t *testing.T) {
	logs := LogsByHabit([]models.HabitLog{{HabitID: "inactive", Status: models.LogStatusCompleted}})
	s := Compute(habits("a"), logs, nil)
	assert.Equal(t, 0, s.HabitsCompleted)
	assert.Equal(t, 0, s.Percentage)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Let's start your day strong!", Message(0))
	assert.Equal(t, "You've got this! Keep going!", Message(10))
	assert.Equal(t, "Great progress! You're on a roll!", Message(25))
	assert.Equal(t, "Fantastic! Almost there!", Message(63))
	assert.Equal(t, "So close! Finish strong!", Message(99))
	assert.Equal(t, "Amazing! You crushed it today!", Message(100))
}
