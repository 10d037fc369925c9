// Package progress turns today's habit and task counts into a single
// completion percentage.
package progress

import "github.com/yukikurage/habit-tracker-api/internal/models"

// Snapshot is the breakdown behind one percentage.
type Snapshot struct {
	HabitsTotal     int `json:"habits_total"`
	HabitsCompleted int `json:"habits_completed"`
	TasksTotal      int `json:"tasks_total"`
	TasksCompleted  int `json:"tasks_completed"`
	Percentage      int `json:"percentage"`
}

// Percentage returns round(done/total*100) with halves rounded up, or 0 when
// total is 0.
func Percentage(done, total int) int {
	if total <= 0 {
		return 0
	}
	if done > total {
		done = total
	}
	return (200*done + total) / (2 * total)
}

// Compute counts every habit in habits and every task in tasks. A habit counts
// as done when todayLogs holds a completed log for it.
func Compute(habits []models.Habit, todayLogs map[string]models.HabitLog, tasks []models.Task) Snapshot {
	s := Snapshot{
		HabitsTotal: len(habits),
		TasksTotal:  len(tasks),
	}
	for _, habit := range habits {
		if log, ok := todayLogs[habit.ID]; ok && log.Status == models.LogStatusCompleted {
			s.HabitsCompleted++
		}
	}
	for _, task := range tasks {
		if task.Status == models.TaskStatusCompleted {
			s.TasksCompleted++
		}
	}
	s.Percentage = Percentage(s.HabitsCompleted+s.TasksCompleted, s.HabitsTotal+s.TasksTotal)
	return s
}

// LogsByHabit indexes logs by habit id. Later entries win.
func LogsByHabit(logs []models.HabitLog) map[string]models.HabitLog {
	out := make(map[string]models.HabitLog, len(logs))
	for _, log := range logs {
		out[log.HabitID] = log
	}
	return out
}

// Message is the motivational line shown next to the progress ring.
func Message(pct int) string {
	switch {
	case pct <= 0:
		return "Let's start your day strong!"
	case pct < 25:
		return "You've got this! Keep going!"
	case pct < 50:
		return "Great progress! You're on a roll!"
	case pct < 75:
		return "Fantastic! Almost there!"
	case pct < 100:
		return "So close! Finish strong!"
	default:
		return "Amazing! You crushed it today!"
	}
}
