package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultIdleInterval = 5 * time.Second
	DefaultSessionTTL   = 2 * time.Hour
)

// ServerConfig holds all configuration values loaded from environment variables.
type ServerConfig struct {
	ServerHost        string
	ServerPort        string
	RedisURL          string
	PostgresURL       string
	BasicAuthUsername string
	BasicAuthPassword string
	Token             string

	// CharactersFile is an optional YAML character catalog.
	CharactersFile string

	IdleDrain    bool
	IdleInterval time.Duration
	SessionTTL   time.Duration

	AllowSkillsOffTurn  bool
	MaxSkillUsesPerTurn int
}

// LoadServerConfig loads configuration from environment variables.
func LoadServerConfig() *ServerConfig {
	loadDotEnv()

	return &ServerConfig{
		ServerHost:          getEnvMust("HOLOTHELLO_SERVER_HOST"),
		ServerPort:          getEnvMust("HOLOTHELLO_SERVER_PORT"),
		RedisURL:            getEnvMust("HOLOTHELLO_REDIS_URL"),
		PostgresURL:         getEnvMust("HOLOTHELLO_POSTGRES_URL"),
		BasicAuthUsername:   getEnvMust("HOLOTHELLO_BASIC_AUTH_USER"),
		BasicAuthPassword:   getEnvMust("HOLOTHELLO_BASIC_AUTH_PASS"),
		Token:               getEnvMust("HOLOTHELLO_TOKEN"),
		CharactersFile:      os.Getenv("HOLOTHELLO_CHARACTERS_FILE"),
		IdleDrain:           getEnvBool("HOLOTHELLO_IDLE_DRAIN", false),
		IdleInterval:        getEnvDuration("HOLOTHELLO_IDLE_INTERVAL", DefaultIdleInterval),
		SessionTTL:          getEnvDuration("HOLOTHELLO_SESSION_TTL", DefaultSessionTTL),
		AllowSkillsOffTurn:  getEnvBool("HOLOTHELLO_SKILLS_OFF_TURN", false),
		MaxSkillUsesPerTurn: getEnvInt("HOLOTHELLO_MAX_SKILL_USES_PER_TURN", 0),
	}
}

// BotConfig holds the settings of the websocket CPU player.
type BotConfig struct {
	ServerURL string
	Token     string
}

// LoadBotConfig loads the bot configuration from environment variables.
func LoadBotConfig() *BotConfig {
	loadDotEnv()

	return &BotConfig{
		ServerURL: getEnvMust("HOLOTHELLO_SERVER_URL"),
		Token:     getEnvMust("HOLOTHELLO_TOKEN"),
	}
}

// loadDotEnv loads a .env file from the working directory if there is one.
// Variables that are already set are not overwritten.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}

	if err := godotenv.Load(); err != nil {
		slog.Error("Failed to load .env file", "error", err)
		os.Exit(1)
	}
}

// getEnvMust either returns the environment variable or logs a fatal error if it is not set.
func getEnvMust(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Environment variable is not set", "key", key)
		os.Exit(1)
	}
	return value
}

func getEnvMustBool(key string) bool {
	value := getEnvMust(key)

	if value != "true" && value != "false" {
		slog.Error("Cannot load environment variable, it must be \"true\" or \"false\"", "key", key, "value", value)
		os.Exit(1)
	}

	return value == "true"
}

func getEnvBool(key string, fallback bool) bool {
	if os.Getenv(key) == "" {
		return fallback
	}
	return getEnvMustBool(key)
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		slog.Error("Cannot load environment variable, it must be a non-negative integer", "key", key, "value", value)
		os.Exit(1)
	}

	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		slog.Error("Cannot load environment variable, it must be a positive duration", "key", key, "value", value)
		os.Exit(1)
	}

	return parsed
}
