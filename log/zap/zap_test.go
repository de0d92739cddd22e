package zap

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oy3o/compact"
	"github.com/oy3o/compact/bridge"
	"github.com/oy3o/compact/eip7702"
	"github.com/oy3o/compact/record"
)

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := ZapLogger{L: zap.New(core)}

	l.Debug("d", nil)
	l.Info("i", record.Fields{"records": 3})
	l.Warn("w", record.Fields{})
	l.Error("e", record.Fields{"key": "ab"})

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, map[string]any{"records": int64(3)}, entries[1].ContextMap())
	assert.Equal(t, "ab", entries[3].ContextMap()["key"])
}

func TestZapLoggerInTable(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	table := record.NewTable(record.Options{Logger: ZapLogger{L: zap.New(core)}})

	auth := eip7702.NewAuthorization(*uint256.NewInt(1), eip7702.Address{}, 1)
	key, _ := table.Put(&bridge.Authorization{Authorization: auth})

	// A bare authorization is too short to be a signed one.
	var wrong bridge.SignedAuthorization
	require.ErrorIs(t, table.Get(key, &wrong), compact.ErrTruncatedData)

	entries := logs.FilterMessage("record decode failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, key.String(), entries[0].ContextMap()["key"])
}
