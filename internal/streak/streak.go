// Package streak derives a habit's current and best run of completed days
// from its recent logs.
package streak

import (
	"sort"

	"github.com/yukikurage/habit-tracker-api/internal/models"
)

// Result is the pair of aggregates stored on a habit.
type Result struct {
	Current int
	Best    int
}

// Calculate walks logs newest first. Skipped days and days after today are
// ignored entirely, a missed day ends the run in progress, and a run only counts as current when
// it starts at today or yesterday. Calendar gaps between logs do not break a
// run; backfill is expected to have written a missed log for them.
func Calculate(logs []models.HabitLog, today, yesterday string) Result {
	walk := make([]models.HabitLog, 0, len(logs))
	for _, log := range logs {
		if log.Status == models.LogStatusSkipped || log.Date > today {
			continue
		}
		walk = append(walk, log)
	}
	sort.SliceStable(walk, func(i, j int) bool {
		return walk[i].Date > walk[j].Date
	})

	var result Result
	if len(walk) == 0 {
		return result
	}

	headOpen := walk[0].Date == today || walk[0].Date == yesterday
	run := 0
	for _, log := range walk {
		if log.Status != models.LogStatusCompleted {
			headOpen = false
			run = 0
			continue
		}

		run++
		if headOpen {
			result.Current = run
		}
		if run > result.Best {
			result.Best = run
		}
	}

	if result.Current > result.Best {
		result.Best = result.Current
	}
	return result
}
