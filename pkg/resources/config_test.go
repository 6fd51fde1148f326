package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ZONA_HORARIA", "UTC")

		cfg, err := LoadConfig("evaluaciones", "1.0")
		require.NoError(t, err)

		assert.Equal(t, "evaluaciones", cfg.Name)
		assert.Equal(t, "1.0", cfg.Version)
		assert.Equal(t, "local", cfg.Env)
		assert.Equal(t, "8080", cfg.HttpPort)
		assert.Equal(t, "6060", cfg.DebugPort)
		assert.Equal(t, "UTC", cfg.Location.String())
		assert.False(t, cfg.OtelEnabled)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("ZONA_HORARIA", "UTC")
		t.Setenv("HTTP_PORT", "9090")
		t.Setenv("DB_NAME", "agenda")
		t.Setenv("OTEL_ENABLED", "true")

		cfg, err := LoadConfig("evaluaciones", "1.0")
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.HttpPort)
		assert.Equal(t, "agenda", cfg.DBName)
		assert.True(t, cfg.OtelEnabled)
	})

	t.Run("invalid time zone", func(t *testing.T) {
		t.Setenv("ZONA_HORARIA", "Marte/Olympus")

		_, err := LoadConfig("evaluaciones", "1.0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Marte/Olympus")
	})
}

func TestConfig_DatabaseURL(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		DBUser:     "profe",
		DBPassword: "p@ss:word",
		DBHost:     "db",
		DBPort:     "5432",
		DBName:     "evaluaciones",
	}

	assert.Equal(t, "postgres://profe:p%40ss%3Aword@db:5432/evaluaciones", cfg.DatabaseURL())
}
