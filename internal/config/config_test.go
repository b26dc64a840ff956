package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8001", cfg.App.Port)
	assert.Equal(t, StorageMongo, cfg.Storage.Backend)
	assert.Equal(t, 50000.0, cfg.Posting.Fee)
	assert.Equal(t, 30, cfg.Posting.LifetimeDays)
	assert.Equal(t, 30*24*60, int(cfg.Posting.Lifetime().Minutes()))
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
app:
  port: "9000"
storage:
  backend: memory
auth:
  jwt_secret: from-file
  token_ttl_minutes: 60
posting:
  fee: 10000
  lifetime_days: 7
telegram:
  chat_id: -100123
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("POST_FEE", "25000")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 60, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, 25000.0, cfg.Posting.Fee)
	assert.Equal(t, 7, cfg.Posting.LifetimeDays)
	assert.Equal(t, int64(-100123), cfg.Telegram.ChatID)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORAGE", "redis")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("negative fee", func(t *testing.T) {
		t.Setenv("POST_FEE", "-1")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("non numeric ttl", func(t *testing.T) {
		t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "soon")
		_, err := Load("")
		assert.Error(t, err)
	})
}
