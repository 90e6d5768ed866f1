package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromEnv(t *testing.T) {
	t.Run("ExplicitOverrideWins", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "warn")
		assert.Equal(t, slog.LevelWarn, levelFromEnv("prod"))
		assert.Equal(t, slog.LevelWarn, levelFromEnv("local"))
	})

	t.Run("LocalDefaultsToDebug", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		assert.Equal(t, slog.LevelDebug, levelFromEnv(""))
		assert.Equal(t, slog.LevelDebug, levelFromEnv("local"))
	})

	t.Run("DeployedDefaultsToInfo", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		assert.Equal(t, slog.LevelInfo, levelFromEnv("dev"))
		assert.Equal(t, slog.LevelInfo, levelFromEnv("prod"))
	})

	t.Run("UnknownValueFallsBack", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")
		assert.Equal(t, slog.LevelInfo, levelFromEnv("prod"))
	})
}

func TestNewCarriesServiceIdentity(t *testing.T) {
	t.Setenv("ENV", "local")
	log := New("records-service", "1.0.0")
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
}
