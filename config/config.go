package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the dashboard service configuration. Values are read from
// DASH_-prefixed environment variables.
type Config struct {
	ListenAddr   string `envconfig:"LISTEN_ADDR" default:":8080"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"./data/lifedash.db"`
	DataDir      string `envconfig:"DATA_DIR" default:"./data"`
	TimezoneName string `envconfig:"TIMEZONE" default:"Local"`

	// MorningTime is when the daily digest notification is issued (HH:MM).
	MorningTime string `envconfig:"MORNING_TIME" default:"08:00"`

	// BearerToken guards the API when non-empty.
	BearerToken string `envconfig:"BEARER_TOKEN"`

	// ElevenLabs voice announcements; disabled when key or voice is empty.
	ElevenAPIKey     string  `envconfig:"ELEVEN_API_KEY"`
	ElevenVoiceID    string  `envconfig:"ELEVEN_VOICE_ID"`
	ElevenStability  float64 `envconfig:"ELEVEN_STABILITY" default:"0.4"`
	ElevenSimilarity float64 `envconfig:"ELEVEN_SIMILARITY" default:"0.7"`
	ElevenStyle      float64 `envconfig:"ELEVEN_STYLE" default:"0.5"`

	// Optional Telegram delivery of fired reminders.
	TelegramToken  string `envconfig:"TELEGRAM_TOKEN"`
	TelegramChatID int64  `envconfig:"TELEGRAM_CHAT_ID"`

	Timezone *time.Location `ignored:"true"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("DASH", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	tz, err := time.LoadLocation(cfg.TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("invalid DASH_TIMEZONE: %w", err)
	}
	cfg.Timezone = tz

	if _, err := time.Parse("15:04", cfg.MorningTime); err != nil {
		return nil, fmt.Errorf("invalid DASH_MORNING_TIME: %w", err)
	}

	return &cfg, nil
}

// TelegramEnabled reports whether reminder delivery via Telegram is
// configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
