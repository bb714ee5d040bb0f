package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Env        string
	ListenAddr string

	DatabaseURL string
	RedisAddr   string

	// Relay credentials. Absence degrades the matching endpoint to a
	// ConfigError response, never a crash.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	DefaultModel  string

	SendGridAPIKey string
	AllowedSender  string
	SenderName     string

	SendCapPerRun int
	DailySendCap  int
	RespectRobots bool

	// BootstrapToken, when set, is ensured as a valid API token for a
	// bootstrap operator at startup.
	BootstrapToken string

	PresetsDir    string
	FanoutWorkers int
	SweepInterval time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		if _, err := fmt.Sscanf(v, "%d", &out); err == nil {
			return out
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func Load() (Config, error) {
	cfg := Config{
		Env:        getenv("APP_ENV", "development"),
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		DefaultModel:  getenv("DEFAULT_MODEL", "gpt-4o"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		AllowedSender:  getenv("ALLOWED_SENDER", "info@nofabusinessconsulting.com"),
		SenderName:     getenv("SENDER_NAME", "NOFA BC"),

		SendCapPerRun: getenvInt("SEND_CAP_PER_RUN", 20),
		DailySendCap:  getenvInt("DAILY_SEND_CAP", 200),
		RespectRobots: getenvBool("ROBOTS_RESPECT", true),

		BootstrapToken: os.Getenv("API_TOKEN"),

		PresetsDir:    getenv("PRESETS_DIR", "presets"),
		FanoutWorkers: getenvInt("FANOUT_WORKERS", 1),
		SweepInterval: getenvDuration("SWEEP_INTERVAL", 30*time.Second),
	}
	if cfg.DatabaseURL == "" {
		// Not fatal for early local runs; warn via error value so callers can decide.
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}
