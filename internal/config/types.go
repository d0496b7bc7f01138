package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName         string
	Port           string
	SkipMigrations bool
	Slack          SlackConfig
	Turso          TursoConfig
	Inngest        InngestConfig
	ProjectID      string
	SuperAdmin     string
	AutoValidate   AutoValidateConfig
	Session        SessionConfig
	Features       FeatureFlags
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// Enabled reports whether outgoing Slack notifications can be sent.
func (c SlackConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type InngestConfig struct {
	AppID      string
	SigningKey string
	EventKey   string
	Dev        bool
}

func (c InngestConfig) Enabled() bool {
	return c.AppID != ""
}

// AutoValidateConfig drives the job that confirms stale pending matches.
type AutoValidateConfig struct {
	After    time.Duration
	Schedule string
	Disabled bool
}

// SessionConfig is handed to the front end; the server itself keeps no sessions.
type SessionConfig struct {
	RememberDays int
}

type FeatureFlags struct {
	SeasonPlayers bool
}
