package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitSetsLevelByEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	require.NoError(t, Init("production"))
	assert.False(t, Logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, Logger.Core().Enabled(zapcore.InfoLevel))

	require.NoError(t, Init("development"))
	assert.True(t, Logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitHonorsLogLevelOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	require.NoError(t, Init("development"))
	assert.False(t, Logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Logger.Core().Enabled(zapcore.WarnLevel))
}

func TestInitRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loudest")

	assert.Error(t, Init("development"))
}

func TestGetBeforeInitFallsBack(t *testing.T) {
	Logger = nil
	assert.NotNil(t, Get())
}
