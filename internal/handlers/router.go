package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habit-tracker-api/internal/events"
	"github.com/yukikurage/habit-tracker-api/internal/middleware"
	"github.com/yukikurage/habit-tracker-api/internal/services"
)

// Services bundles what the API routes depend on
type Services struct {
	Auth     *services.AuthService
	Habits   *services.HabitService
	Tasks    *services.TaskService
	Progress *services.ProgressService
	History  *services.HistoryService
	Settings *services.SettingsService
	Bus      *events.Bus
	Notifier *events.Notifier
	Location *time.Location
}

// RegisterRoutes mounts the health check and the /api tree on r. Session
// middleware must already be installed.
func RegisterRoutes(r *gin.Engine, s Services) {
	authHandler := NewAuthHandler(s.Auth, s.Settings)
	habitHandler := NewHabitHandler(s.Habits)
	todayHandler := NewTodayHandler(s.Progress)
	taskHandler := NewTaskHandler(s.Tasks)
	historyHandler := NewHistoryHandler(s.History)
	settingsHandler := NewSettingsHandler(s.Settings)
	eventsHandler := NewEventsHandler(s.Bus, s.Notifier)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Habit Tracker API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/session", authHandler.CreateSession)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(s.Auth), authHandler.GetCurrentUser)
		}

		protected := api.Group("")
		protected.Use(middleware.RequireAuth(s.Auth), middleware.ResolveLocation(s.Settings, s.Location))

		protected.GET("/today", todayHandler.GetToday)

		habits := protected.Group("/habits")
		{
			habits.GET("", habitHandler.ListHabits)
			habits.POST("", habitHandler.CreateHabit)
			habits.GET("/:id", middleware.RequireHabitAccess(s.Habits), habitHandler.GetHabit)
			habits.PATCH("/:id", middleware.RequireHabitAccess(s.Habits), habitHandler.UpdateHabit)
			habits.DELETE("/:id", middleware.RequireHabitAccess(s.Habits), habitHandler.DeleteHabit)
			habits.PATCH("/:id/active", middleware.RequireHabitAccess(s.Habits), habitHandler.SetActive)
			habits.POST("/:id/toggle", middleware.RequireHabitAccess(s.Habits), habitHandler.ToggleToday)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/suggest", taskHandler.SuggestTasks)
			tasks.GET("/:id", middleware.RequireTaskAccess(s.Tasks), taskHandler.GetTask)
			tasks.PATCH("/:id", middleware.RequireTaskAccess(s.Tasks), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskAccess(s.Tasks), taskHandler.DeleteTask)
			tasks.PATCH("/:id/status", middleware.RequireTaskAccess(s.Tasks), taskHandler.UpdateStatus)
		}

		history := protected.Group("/history")
		{
			history.GET("/habits", historyHandler.HabitLogs)
			history.GET("/tasks", historyHandler.TaskHistory)
			history.DELETE("/tasks/:id", historyHandler.DeleteTaskHistory)
		}

		settings := protected.Group("/settings")
		{
			settings.GET("/profile", settingsHandler.GetProfile)
			settings.PATCH("/profile", settingsHandler.UpdateProfile)
			settings.POST("/history-start", settingsHandler.StartHistory)
			settings.DELETE("/history-start", settingsHandler.ClearHistoryFence)
			settings.POST("/reset/tasks", settingsHandler.ResetTasks)
			settings.POST("/reset/habits", settingsHandler.ResetHabits)
			settings.POST("/reset/all", settingsHandler.ResetAll)
			settings.POST("/clear-history", settingsHandler.ClearHistory)
			settings.POST("/restore", settingsHandler.Restore)
		}

		protected.GET("/events", eventsHandler.Stream)
		protected.POST("/celebrations/dismiss", eventsHandler.DismissCelebration)
	}
}
