package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultLoggerIsUsable(t *testing.T) {
	require.NotNil(t, Logger)
	assert.NotPanics(t, func() {
		Logger.Infow("before initialize", FieldCount, 1)
	})
}

func TestInitialize(t *testing.T) {
	orig := Logger
	t.Cleanup(func() { Logger = orig })

	require.NoError(t, Initialize(false, true))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.DebugLevel), "debug should be enabled when verbose")

	require.NoError(t, Initialize(true, false))
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.InfoLevel), "info should be suppressed by default")

	assert.NotNil(t, Named("store"))
}
