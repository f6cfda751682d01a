package zapadapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/libtrack/recordstore-go/recordstore/zapadapter"
)

func Test_Logger_PassesMessagesAndKeyValuePairsThrough(t *testing.T) {
	// arrange
	core, observed := observer.New(zapcore.DebugLevel)
	logger := zapadapter.New(zap.New(core))

	// act
	logger.Debug("sql executed", "duration_ms", int64(3))
	logger.Info("rows affected", "count", int64(1))
	logger.Warn("rollback failed")
	logger.Error("query failed", "error", "connection refused")

	// assert
	entries := observed.All()
	assert.Len(t, entries, 4)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "sql executed", entries[0].Message)
	assert.Equal(t, int64(3), entries[0].ContextMap()["duration_ms"])

	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)

	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "connection refused", entries[3].ContextMap()["error"])
}

func Test_NewNop_DiscardsEverythingWithoutPanicking(t *testing.T) {
	// arrange
	logger := zapadapter.NewNop()

	// act / assert
	assert.NotPanics(t, func() {
		logger.Debug("discarded")
		logger.Info("discarded")
		logger.Warn("discarded")
		logger.Error("discarded")
	})
}
