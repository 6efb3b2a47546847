package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Nations.TempTTL)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.EventsEnabled())
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nb.yaml")
	yml := `
server:
  addr: ":9090"
database:
  driver: postgres
  dsn: postgres://nb@localhost/nb?sslmode=disable
redis:
  addr: localhost:6379
leaderboard:
  cache_ttl: 30s
nations:
  temp_ttl: 2h
kafka:
  brokers: [localhost:9092]
log:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("NB_ADDR", ":7070")
	t.Setenv("NB_KAFKA_TOPIC", "custom-topic")
	t.Setenv("NB_TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Nations.TempTTL)
	assert.Equal(t, 30*time.Second, cfg.Leaderboard.CacheTTL)
	assert.Equal(t, "custom-topic", cfg.Kafka.Topic)
	assert.True(t, cfg.CacheEnabled())
	assert.True(t, cfg.EventsEnabled())
	assert.Equal(t, 3, cfg.Leaderboard.BreakerFailures)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.RateLimit.TrustedProxies)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "oracle"
	cfg.Log.Format = "xml"
	cfg.Nations.TempTTL = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
	assert.Contains(t, err.Error(), "xml")
	assert.Contains(t, err.Error(), "temp_ttl")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
