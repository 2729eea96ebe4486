package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cremeria-api/pkg/config"
)

func TestLoad_DefaultsYEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_EXPIRATION_MINUTES", "no-es-numero")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 720, cfg.JWT.Expiration)
	assert.Equal(t, "local", cfg.Storage.Mode)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "cremeria", SSLMode: "disable"}

	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/cremeria?sslmode=disable", c.ConnectionString())
}

func TestLocation_ZonaInvalidaEsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, config.AppConfig{Timezone: "Marte/Base"}.Location())
}
