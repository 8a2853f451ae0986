package config

import (
	"testing"
	"time"

	"github.com/jason-s-yu/typerace/internal/room"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "CONFIRM_WINDOW_SEC", "COUNTDOWN_SEC", "REDIS_ADDR", "DATABASE_URL", "TEXT_MIN_WORDS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, room.DefaultOptions(), cfg.Room)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 6*time.Hour, cfg.RoomCodeTTL)
	assert.Equal(t, 80, cfg.TextMinWords)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CONFIRM_WINDOW_SEC", "10")
	t.Setenv("COUNTDOWN_SEC", "5")
	t.Setenv("RESULT_GRACE_SEC", "0")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.Room.ConfirmWindow)
	assert.Equal(t, 5, cfg.Room.CountdownSec)
	assert.Equal(t, time.Duration(0), cfg.Room.ResultGrace)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadIgnoresGarbage(t *testing.T) {
	t.Setenv("COUNTDOWN_SEC", "three")
	t.Setenv("DONE_RETENTION_SEC", "-4")

	cfg := Load()
	assert.Equal(t, 3, cfg.Room.CountdownSec)
	assert.Equal(t, 60*time.Second, cfg.Room.DoneRetention)
}

func TestLoadRejectsOutOfRangeRoomOptions(t *testing.T) {
	t.Setenv("ROOM_CODE_LENGTH", "0")
	t.Setenv("COUNTDOWN_SEC", "-1")
	t.Setenv("MAX_NAME_LENGTH", "-3")
	t.Setenv("TEXT_MIN_WORDS", "0")

	cfg := Load()
	assert.Equal(t, 6, cfg.Room.CodeLength)
	assert.Equal(t, 3, cfg.Room.CountdownSec)
	assert.Equal(t, 32, cfg.Room.MaxNameLength)
	assert.Equal(t, 80, cfg.TextMinWords)
}

func TestLoadAllowsZeroCountdown(t *testing.T) {
	t.Setenv("COUNTDOWN_SEC", "0")
	assert.Equal(t, 0, Load().Room.CountdownSec)
}

func TestLoadRejectsInvertedDurationRange(t *testing.T) {
	t.Setenv("MIN_DURATION_SEC", "300")
	t.Setenv("MAX_DURATION_SEC", "60")

	cfg := Load()
	assert.Equal(t, 5, cfg.Room.MinDurationSec)
	assert.Equal(t, 600, cfg.Room.MaxDurationSec)
}
