package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	GameAddr  string // TCP address the game server listens on
	HTTPPort  string // admin/diagnostics HTTP server port
	CardsFile string

	LogLevel string
	LogJSON  bool

	// RandomSeed pins the shuffle source for reproducible games.
	// 0 means seed from the clock.
	RandomSeed int64

	ReadTimeout   time.Duration
	ShutdownGrace time.Duration
}

// Load reads configuration from the environment, with an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		GameAddr:      getEnv("GAME_ADDR", ":8888"),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		CardsFile:     getEnv("CARDS_FILE", "cards.json"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogJSON:       getBool("LOG_JSON", false),
		RandomSeed:    getInt64("RANDOM_SEED", 0),
		ReadTimeout:   getDuration("READ_TIMEOUT", time.Second),
		ShutdownGrace: getDuration("SHUTDOWN_GRACE", 2*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
