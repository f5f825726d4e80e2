package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Forwarder.BatchSize)
	assert.Equal(t, "http://localhost:8000", cfg.Forwarder.StoreURL)
	assert.Equal(t, 12000.0, cfg.Classifier.BumpyThreshold)
	assert.Empty(t, cfg.Postgres.Host)
	assert.Empty(t, cfg.PostgresDSN())
}

func TestLoadConfigFromFile(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	yaml := `
server:
  port: 9000
postgres:
  host: db.internal
  port: 5433
  db: agents
  user: store
  password: secret
forwarder:
  batch_size: 25
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Forwarder.BatchSize)
	assert.Equal(t,
		"host=db.internal port=5433 user=store password=secret dbname=agents sslmode=disable",
		cfg.PostgresDSN())
	// Defaults still apply to sections the file does not mention.
	assert.Equal(t, 16000.0, cfg.Classifier.PotholeThreshold)
}
