package utilities

import (
	"path/filepath"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestSetIDNode(t *testing.T) {
	// snowflake nodes are limited to 0..1023
	assert.Error(t, SetIDNode(4096))
	require.NoError(t, SetIDNode(7))
	t.Cleanup(func() { _ = SetIDNode(DefaultIDNode) })

	id, err := snowflake.ParseString(NewID())
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.Node())
}

func TestNewKSUID(t *testing.T) {
	assert.Len(t, NewKSUID(), 27)
	assert.NotEqual(t, NewKSUID(), NewKSUID())
}

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, levelFromString("debug"))
	assert.Equal(t, zapcore.WarnLevel, levelFromString("warning"))
	assert.Equal(t, zapcore.ErrorLevel, levelFromString("error"))
	assert.Equal(t, zapcore.InfoLevel, levelFromString("nonsense"))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_DEV", "1")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FILE", "")
	cfg := ConfigFromEnv()
	assert.True(t, cfg.Dev)
	assert.Equal(t, "debug", cfg.Level)

	t.Setenv("LOG_DEV", "")
	t.Setenv("LOG_LEVEL", "warn")
	cfg = ConfigFromEnv()
	assert.False(t, cfg.Dev)
	assert.Equal(t, "warn", cfg.Level)
}

func TestInitWithRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	lg, err := Init(Config{Level: "info", File: path})
	require.NoError(t, err)
	lg.Info("hello")
	_ = lg.Sync()
	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.NotEmpty(t, matches)
}
