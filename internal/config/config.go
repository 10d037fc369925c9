package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/yukikurage/habit-tracker-api/internal/utils"
)

type Config struct {
	AppPort             string
	GinMode             string
	LogLevel            string
	DBDriver            string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBSSLMode           string
	SQLitePath          string
	RedisHost           string
	RedisPort           string
	RedisURL            string
	SessionSecret       string
	JWTSecret           string
	JWTIssuer           string
	JWTAudience         string
	DefaultTimezone     string
	CelebrationCooldown time.Duration
	MaintenanceInterval time.Duration
	SeedSamples         bool
	OpenAIAPIKey        string
	OpenAIModel         string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:             getEnv("APP_PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DBDriver:            getEnv("DB_DRIVER", "postgres"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "habituser"),
		DBPassword:          getEnv("DB_PASSWORD", "habitpassword"),
		DBName:              getEnv("DB_NAME", "habit_tracker"),
		DBSSLMode:           getEnv("DB_SSLMODE", "disable"),
		SQLitePath:          getEnv("SQLITE_PATH", "habit_tracker.db"),
		RedisHost:           getEnv("REDIS_HOST", "localhost"),
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		RedisURL:            getEnv("REDIS_URL", ""),
		SessionSecret:       getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTIssuer:           getEnv("JWT_ISSUER", ""),
		JWTAudience:         getEnv("JWT_AUDIENCE", "authenticated"),
		DefaultTimezone:     getEnv("DEFAULT_TIMEZONE", "UTC"),
		CelebrationCooldown: getEnvDuration("CELEBRATION_COOLDOWN", 5*time.Second),
		MaintenanceInterval: getEnvDuration("MAINTENANCE_INTERVAL", 0),
		SeedSamples:         getEnvBool("SEED_SAMPLES", true),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
	}
}

// Location returns the default calendar location, falling back to UTC when
// DEFAULT_TIMEZONE is not a valid IANA name.
func (c *Config) Location() *time.Location {
	return utils.LoadLocation(c.DefaultTimezone, time.UTC)
}

func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
