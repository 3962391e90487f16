package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Applies defaults", func(t *testing.T) {
		// Given: a config file that only sets the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: it is loaded
		conf, err := Load(path)

		// Then: everything else falls back to the defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "9091", conf.SocketPort)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 24*time.Hour, conf.Session.TTL)
		assert.Equal(t, 500*time.Millisecond, conf.Session.ComputerMoveDelay)
		assert.Equal(t, 2*time.Second, conf.Session.RoundResetDelay)
	})

	t.Run("Reads every section", func(t *testing.T) {
		path := writeConfig(t, `
http-port: "8080"
storage: redis
redis:
  host: redis.local
  port: "6380"
session:
  ttl: 1h
  computer-move-delay: 1s
  round-reset-delay: 3s
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, "redis.local:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, time.Hour, conf.Session.TTL)
		assert.Equal(t, time.Second, conf.Session.ComputerMoveDelay)
		assert.Equal(t, 3*time.Second, conf.Session.RoundResetDelay)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		// Given: the file and the environment disagree on the port
		path := writeConfig(t, "http-port: \"8080\"\n")
		t.Setenv("HTTP_PORT", "7070")

		// When: it is loaded
		conf, err := Load(path)

		// Then: the environment wins
		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
	})

	t.Run("Rejects an unknown storage", func(t *testing.T) {
		path := writeConfig(t, "storage: etcd\n")

		_, err := Load(path)

		require.Error(t, err)
	})

	t.Run("Fails on a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
	})
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yml"))
	})
}
