package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	defaultAutoValidateAfter    = 24 * time.Hour
	defaultAutoValidateSchedule = "0 0 * * * *"
	defaultRememberDays         = 30
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return ""
	}

	return Config{
		DBName:         getEnv("DB_NAME"),
		Port:           getEnv("PORT"),
		SkipMigrations: boolEnv("SKIP_DB_MIGRATIONS", false),
		Slack: SlackConfig{
			Token:         os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID:     os.Getenv("SLACK_CHANNEL_ID"),
			SigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		},
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		Inngest: InngestConfig{
			AppID:      os.Getenv("INNGEST_APP_ID"),
			SigningKey: os.Getenv("INNGEST_SIGNING_KEY"),
			EventKey:   os.Getenv("INNGEST_EVENT_KEY"),
			Dev:        boolEnv("INNGEST_DEV", false),
		},
		ProjectID:  os.Getenv("GCP_PROJECT"),
		SuperAdmin: os.Getenv("SUPER_ADMIN_EMAIL"),
		AutoValidate: AutoValidateConfig{
			After:    durationEnv("AUTO_VALIDATE_AFTER", defaultAutoValidateAfter),
			Schedule: stringEnv("AUTO_VALIDATE_CRON", defaultAutoValidateSchedule),
			Disabled: boolEnv("AUTO_VALIDATE_DISABLED", false),
		},
		Session: SessionConfig{
			RememberDays: intEnv("REMEMBER_SESSION_DAYS", defaultRememberDays),
		},
		Features: FeatureFlags{
			SeasonPlayers: boolEnv("FEATURE_SEASON_PLAYERS", true),
		},
	}
}

func stringEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn("Invalid boolean in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func intEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn("Invalid integer in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn("Invalid duration in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
