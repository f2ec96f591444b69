package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{level: "debug", want: zapcore.DebugLevel},
		{level: "WARN", want: zapcore.WarnLevel},
		{level: "", want: zapcore.InfoLevel},
		{level: "loud", want: zapcore.InfoLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.level, func(t *testing.T) {
			log, err := New("order-svc", testCase.level)
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(testCase.want))
			if testCase.want > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(testCase.want-1))
			}
		})
	}
}

func TestPrintfAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	NewPrintfAdapter(zap.New(core)).Printf("write failed: %s", "broker down")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "write failed: broker down", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)

	NewPrintfAdapter(nil).Printf("ignored")
}
