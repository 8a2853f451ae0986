// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/jason-s-yu/typerace/internal/room"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port     string
	LogLevel string

	Room room.Options

	RedisAddr   string // empty disables Redis code reservation
	RedisDB     int
	RoomCodeTTL time.Duration

	DatabaseURL  string // empty disables loading extra passages
	TextMinWords int
}

// Load reads the configuration. Unset, unparsable or out-of-range values fall back to
// defaults.
func Load() Config {
	defaults := room.DefaultOptions()
	cfg := Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Room: room.Options{
			ConfirmWindow:  getEnvSeconds("CONFIRM_WINDOW_SEC", defaults.ConfirmWindow),
			CountdownSec:   getEnvIntMin("COUNTDOWN_SEC", defaults.CountdownSec, 0),
			ResultGrace:    getEnvSeconds("RESULT_GRACE_SEC", defaults.ResultGrace),
			DoneRetention:  getEnvSeconds("DONE_RETENTION_SEC", defaults.DoneRetention),
			CodeLength:     getEnvIntMin("ROOM_CODE_LENGTH", defaults.CodeLength, 1),
			MaxNameLength:  getEnvIntMin("MAX_NAME_LENGTH", defaults.MaxNameLength, 1),
			MinDurationSec: getEnvIntMin("MIN_DURATION_SEC", defaults.MinDurationSec, 1),
			MaxDurationSec: getEnvIntMin("MAX_DURATION_SEC", defaults.MaxDurationSec, 1),
		},
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RoomCodeTTL:  getEnvSeconds("ROOM_CODE_TTL_SEC", 6*time.Hour),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		TextMinWords: getEnvIntMin("TEXT_MIN_WORDS", 80, 1),
	}
	if cfg.Room.MaxDurationSec < cfg.Room.MinDurationSec {
		cfg.Room.MinDurationSec = defaults.MinDurationSec
		cfg.Room.MaxDurationSec = defaults.MaxDurationSec
	}
	return cfg
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// getEnvIntMin is getEnvInt that also rejects values below floor.
func getEnvIntMin(key string, def, floor int) int {
	v := getEnvInt(key, def)
	if v < floor {
		return def
	}
	return v
}

func getEnvSeconds(key string, def time.Duration) time.Duration {
	v := getEnvInt(key, -1)
	if v < 0 {
		return def
	}
	return time.Duration(v) * time.Second
}
