package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_PASSWORD", "")

	path := writeConfig(t, `
database:
  host: localhost
  port: 5432
  user: flights
  name: flightsearch
kafka:
  brokers: ["localhost:9092"]
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, ":9090", cfg.GRPC.Address)
	assert.Equal(t, "catalog-events", cfg.Kafka.CatalogTopic)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, time.Minute, cfg.Search.FlightsCacheTTL())
	assert.Equal(t, 4, cfg.Search.FareLoadConcurrency)
	assert.Equal(t, "host=localhost port=5432 user=flights password= dbname=flightsearch sslmode=disable", cfg.Database.DSN())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("REDIS_PASSWORD", "r3dis")

	path := writeConfig(t, `
app:
  env: development
database:
  password: from-file
search:
  fare_load_concurrency: 8
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "r3dis", cfg.Redis.Password)
	assert.Equal(t, 8, cfg.Search.FareLoadConcurrency)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "http: [unclosed"))
	assert.Error(t, err)
}
