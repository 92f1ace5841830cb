package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("bogus"))
}

func TestNewDefaultLevel(t *testing.T) {
	log := New(DefaultConfig())
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reqwestur.log")
	cfg := DefaultConfig()
	cfg.Level = "info"
	cfg.Output = "file"
	cfg.FilePath = path

	log := New(cfg)
	log.Info("request completed")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"request completed"`)
}

func TestNewFileOutputWithoutPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = "file"

	log := New(cfg)
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
}
