package services

import (
	"context"
	"testing"
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/events"
	"github.com/yukikurage/habit-tracker-api/internal/repository"
	"github.com/yukikurage/habit-tracker-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fixture wires every service against one in-memory database with a fixed
// clock.
type fixture struct {
	db       *gorm.DB
	bus      *events.Bus
	notifier *events.Notifier

	habitRepo   repository.HabitRepository
	logRepo     repository.HabitLogRepository
	taskRepo    repository.TaskRepository
	historyRepo repository.TaskHistoryRepository
	profileRepo repository.ProfileRepository

	streaks  *StreakService
	progress *ProgressService
	habits   *HabitService
	tasks    *TaskService
	history  *HistoryService
	settings *SettingsService
}

func newFixture(t *testing.T, seed bool) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &fixture{
		db:          db,
		bus:         events.NewBus(),
		habitRepo:   repository.NewHabitRepository(db),
		logRepo:     repository.NewHabitLogRepository(db),
		taskRepo:    repository.NewTaskRepository(db),
		historyRepo: repository.NewTaskHistoryRepository(db),
		profileRepo: repository.NewProfileRepository(db),
	}
	log := zap.NewNop()
	f.notifier = events.NewNotifier(f.bus, events.NewCelebrations(5*time.Second), log)

	f.streaks = NewStreakService(f.habitRepo, f.logRepo, log)
	f.streaks.now = fixedClock
	f.progress = NewProgressService(f.habitRepo, f.logRepo, f.taskRepo, f.streaks, f.notifier)
	f.progress.now = fixedClock
	f.habits = NewHabitService(f.habitRepo, f.logRepo, f.streaks, f.progress, f.notifier, seed, log)
	f.habits.now = fixedClock
	f.tasks = NewTaskService(f.taskRepo, f.progress, f.notifier, nil, seed, log)
	f.tasks.now = fixedClock
	f.history = NewHistoryService(f.logRepo, f.historyRepo, f.profileRepo)
	f.history.now = fixedClock
	f.settings = NewSettingsService(f.profileRepo, f.habitRepo, f.logRepo, f.taskRepo, f.historyRepo, f.streaks, f.progress, log)
	f.settings.now = fixedClock

	return f
}

// drain returns every event currently buffered on sub.
func drain(sub *events.Subscription) []events.Event {
	var out []events.Event
	for {
		select {
		case ev := <-sub.C:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func kinds(evs []events.Event) []events.Kind {
	out := make([]events.Kind, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Kind)
	}
	return out
}

var bg = context.Background()
