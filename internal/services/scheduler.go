package services

import (
	"context"
	"sync"
	"time"

	"github.com/yukikurage/habit-tracker-api/internal/repository"
	"go.uber.org/zap"
)

// MaintenanceScheduler periodically runs backfill and streak maintenance for
// every known profile, so streaks stay fresh for users who do not open the
// today view.
type MaintenanceScheduler struct {
	profileRepo repository.ProfileRepository
	streaks     *StreakService
	settings    *SettingsService
	fallback    *time.Location
	interval    time.Duration
	log         *zap.Logger
	stopChan    chan struct{}
	stopOnce    sync.Once
	started     bool
	done        chan struct{}
}

// NewMaintenanceScheduler creates a new scheduler
func NewMaintenanceScheduler(
	profileRepo repository.ProfileRepository,
	streaks *StreakService,
	settings *SettingsService,
	fallback *time.Location,
	interval time.Duration,
	log *zap.Logger,
) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		profileRepo: profileRepo,
		streaks:     streaks,
		settings:    settings,
		fallback:    fallback,
		interval:    interval,
		log:         log,
		stopChan:    make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start begins the scheduler loop. A non-positive interval disables it.
func (s *MaintenanceScheduler) Start() {
	s.started = true
	if s.interval <= 0 {
		s.log.Info("maintenance scheduler disabled")
		close(s.done)
		return
	}

	s.log.Info("starting maintenance scheduler", zap.Duration("interval", s.interval))

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunOnce(context.Background())
			case <-s.stopChan:
				s.log.Info("maintenance scheduler stopped")
				return
			}
		}
	}()
}

// Stop stops the loop and waits for an in-flight pass to finish
func (s *MaintenanceScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	if s.started {
		<-s.done
	}
}

// RunOnce runs one pass over every profile. A failing user does not stop
// the pass. It returns the number of users whose maintenance failed.
func (s *MaintenanceScheduler) RunOnce(ctx context.Context) int {
	userIDs, err := s.profileRepo.ListIDs(ctx)
	if err != nil {
		s.log.Error("failed to list profiles for maintenance", zap.Error(err))
		return 0
	}

	failed := 0
	for _, userID := range userIDs {
		loc := s.fallback
		if s.settings != nil {
			loc = s.settings.Location(ctx, userID, s.fallback)
		}
		if err := s.streaks.RunBackfillAndRecompute(ctx, userID, loc); err != nil {
			failed++
		}
	}

	s.log.Debug("maintenance pass finished", zap.Int("users", len(userIDs)), zap.Int("failed", failed))
	return failed
}
