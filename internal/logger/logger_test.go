package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOptionsLevel(t *testing.T) {
	assert.Equal(t, zap.InfoLevel, Options{}.Level())
	assert.Equal(t, zap.DebugLevel, Options{Debug: true}.Level())
	assert.Equal(t, zap.DebugLevel, Options{Verbose: true}.Level())
}

func TestNewWritesJSONLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pmt.log")

	log, err := New(Options{LogFile: path})
	require.NoError(t, err)
	log.Debug("chunk dispatched", zap.String("file", "events_l_english.yml"), zap.Int("chunk", 3))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, `"msg":"chunk dispatched"`)
	assert.Contains(t, line, `"file":"events_l_english.yml"`)
	assert.Contains(t, line, `"chunk":3`)
}

func TestNewLoggerLevels(t *testing.T) {
	assert.False(t, NewLogger(false).Core().Enabled(zap.DebugLevel))
	assert.True(t, NewLogger(true).Core().Enabled(zap.DebugLevel))
	assert.True(t, NewLoggerWithVerbose(false, true).Core().Enabled(zap.DebugLevel))
}
