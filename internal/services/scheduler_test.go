package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/habit-tracker-api/internal/models"
	"github.com/yukikurage/habit-tracker-api/internal/testutil"
	"go.uber.org/zap"
)

func TestMaintenanceScheduler_RunOnce(t *testing.T) {
	f := newFixture(t, false)

	for _, user := range []string{"alice", "bob"} {
		_, err := f.settings.GetProfile(bg, user, "")
		require.NoError(t, err)
		testutil.CreateHabit(t, f.db, user, "Drink Water", fixedNow.AddDate(0, 0, -3))
	}

	scheduler := NewMaintenanceScheduler(f.profileRepo, f.streaks, f.settings, time.UTC, time.Hour, zap.NewNop())
	assert.Zero(t, scheduler.RunOnce(bg))

	for _, user := range []string{"alice", "bob"} {
		logs, err := f.logRepo.ListByUserAndDate(bg, user, "2024-05-09")
		require.NoError(t, err)
		require.Len(t, logs, 1, user)
		assert.Equal(t, models.LogStatusMissed, logs[0].Status)
	}

	// a second pass finds nothing left to backfill
	assert.Zero(t, scheduler.RunOnce(bg))
	logs, err := f.logRepo.ListByUserAndDate(bg, "alice", "2024-05-09")
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestMaintenanceScheduler_UsesProfileTimezone(t *testing.T) {
	f := newFixture(t, false)

	// 2024-05-10 15:00 UTC is already 05-11 in a +10 zone, so its yesterday is 05-10
	tz := "Etc/GMT-10"
	if _, err := time.LoadLocation(tz); err != nil {
		t.Skip("zoneinfo database not available")
	}
	_, err := f.settings.UpdateProfile(bg, "alice", UpdateProfileInput{Timezone: &tz})
	require.NoError(t, err)
	testutil.CreateHabit(t, f.db, "alice", "Drink Water", fixedNow.AddDate(0, 0, -3))

	scheduler := NewMaintenanceScheduler(f.profileRepo, f.streaks, f.settings, time.UTC, time.Hour, zap.NewNop())
	assert.Zero(t, scheduler.RunOnce(bg))

	logs, err := f.logRepo.ListByUserAndDate(bg, "alice", "2024-05-10")
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestMaintenanceScheduler_StartStop(t *testing.T) {
	f := newFixture(t, false)

	scheduler := NewMaintenanceScheduler(f.profileRepo, f.streaks, f.settings, time.UTC, 10*time.Millisecond, zap.NewNop())
	scheduler.Start()
	time.Sleep(30 * time.Millisecond)
	scheduler.Stop()
	scheduler.Stop()
}

func TestMaintenanceScheduler_Disabled(t *testing.T) {
	f := newFixture(t, false)

	scheduler := NewMaintenanceScheduler(f.profileRepo, f.streaks, f.settings, time.UTC, 0, zap.NewNop())
	scheduler.Start()
	scheduler.Stop()

	// never started
	idle := NewMaintenanceScheduler(f.profileRepo, f.streaks, f.settings, time.UTC, time.Hour, zap.NewNop())
	idle.Stop()
}
