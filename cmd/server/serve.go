package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/yukikurage/habit-tracker-api/internal/config"
	"github.com/yukikurage/habit-tracker-api/internal/constants"
	"github.com/yukikurage/habit-tracker-api/internal/database"
	"github.com/yukikurage/habit-tracker-api/internal/events"
	"github.com/yukikurage/habit-tracker-api/internal/handlers"
	"github.com/yukikurage/habit-tracker-api/internal/metrics"
	"github.com/yukikurage/habit-tracker-api/internal/middleware"
	"github.com/yukikurage/habit-tracker-api/internal/repository"
	"github.com/yukikurage/habit-tracker-api/internal/services"
	"github.com/yukikurage/habit-tracker-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

// app is the wired service graph shared by the server and the CLI commands
type app struct {
	services  handlers.Services
	streaks   *services.StreakService
	scheduler *services.MaintenanceScheduler
}

func newApp(cfg *config.Config, db *gorm.DB, publisher events.Publisher, bus *events.Bus, log *zap.Logger) *app {
	habitRepo := repository.NewHabitRepository(db)
	logRepo := repository.NewHabitLogRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	historyRepo := repository.NewTaskHistoryRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	notifier := events.NewNotifier(publisher, events.NewCelebrations(cfg.CelebrationCooldown), log)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	streaks := services.NewStreakService(habitRepo, logRepo, log)
	progress := services.NewProgressService(habitRepo, logRepo, taskRepo, streaks, notifier)
	settings := services.NewSettingsService(profileRepo, habitRepo, logRepo, taskRepo, historyRepo, streaks, progress, log)

	return &app{
		services: handlers.Services{
			Auth:     services.NewAuthService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience),
			Habits:   services.NewHabitService(habitRepo, logRepo, streaks, progress, notifier, cfg.SeedSamples, log),
			Tasks:    services.NewTaskService(taskRepo, progress, notifier, aiService, cfg.SeedSamples, log),
			Progress: progress,
			History:  services.NewHistoryService(logRepo, historyRepo, profileRepo),
			Settings: settings,
			Bus:      bus,
			Notifier: notifier,
			Location: cfg.Location(),
		},
		streaks:   streaks,
		scheduler: services.NewMaintenanceScheduler(profileRepo, streaks, settings, cfg.Location(), cfg.MaintenanceInterval, log),
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := database.Migrate(log); err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	utils.RegisterValidators()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Events go through Redis when configured so every instance sees them
	bus := events.NewBus()
	var publisher events.Publisher = bus
	if cfg.RedisURL != "" {
		client, err := events.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()

		broker := events.NewRedisBroker(client, bus, log)
		publisher = broker
		go func() {
			if err := broker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("event relay stopped", zap.Error(err))
			}
		}()
	}

	a := newApp(cfg, database.GetDB(), publisher, bus, log)

	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.RequestLogger(log), metrics.Middleware())

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,
		"tcp",
		cfg.RedisHost+":"+cfg.RedisPort,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		return fmt.Errorf("failed to create redis session store: %w", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterRoutes(r, a.services)

	a.scheduler.Start()
	defer a.scheduler.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
