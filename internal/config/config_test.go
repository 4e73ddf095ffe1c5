package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	// When: the configuration is built without a file
	conf, err := Default()
	require.NoError(t, err)

	// Then: the defaults are applied
	assert.Equal(t, "info", conf.LogLevel)
	assert.Equal(t, "3000", conf.HTTPPort)
	assert.Equal(t, "8080", conf.SocketPort)
	assert.Equal(t, 19, conf.GridSize)
	assert.Equal(t, "*", conf.CORSOrigin)
	assert.False(t, conf.Redis.Enabled)
	assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	assert.Equal(t, time.Hour, conf.Redis.SnapshotTTL)
}

func TestMustLoad(t *testing.T) {
	t.Run("Reads values from the file", func(t *testing.T) {
		// Given: a config file overriding a few keys
		path := filepath.Join(t.TempDir(), "config.yml")
		content := "log-level: debug\ngrid-size: 15\nredis:\n  enabled: true\n  host: cache\n  snapshot-ttl: 5m\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: the file is loaded
		conf := MustLoad(path)

		// Then: file values win and the rest keep their defaults
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, 15, conf.GridSize)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "cache:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 5*time.Minute, conf.Redis.SnapshotTTL)
		assert.Equal(t, "connect6:snapshots", conf.Redis.Channel)
	})

	t.Run("Panics when the file is missing", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
		})
	})
}

func TestRedis_GetRedisAddr(t *testing.T) {
	// Given: a redis config without a host
	conf := Redis{Port: "6379"}

	// Then: no address is produced
	assert.Empty(t, conf.GetRedisAddr())
}
