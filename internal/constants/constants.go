package constants

import "time"

const (
	// ContextKeyUserID is the gin context and session key holding the owning user id.
	ContextKeyUserID = "user_id"
	// ContextKeyLocation holds the caller's *time.Location.
	ContextKeyLocation = "location"
	ContextKeyHabit    = "habit"
	ContextKeyTask     = "task"

	SessionCookieName = "habit_session"
	TimezoneHeader    = "X-Timezone"

	// DateLayout is the calendar-day format used for log dates and due dates.
	DateLayout = "2006-01-02"

	// MaxStreakLogs bounds how far back the streak walk looks.
	MaxStreakLogs = 365

	DefaultCelebrationCooldown = 5 * time.Second
	RestoreGracePeriod         = 24 * time.Hour

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HistoryLimit caps each history listing.
	HistoryLimit = 100

	MaxAIGeneratedTasks = 20
	EventBufferSize     = 16
	RedisEventPrefix    = "habit-tracker:events:"
)
