// ABOUTME: Tests for logger construction and level parsing.
// ABOUTME: Uses zap's observer core to verify key/value propagation.
package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", ""} {
		l, err := New(mode, "info")
		require.NoError(t, err, "mode %q", mode)
		require.NotNil(t, l.SugaredLogger)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New("dev", "loud")
	assert.Error(t, err)
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "indexer").Warn("index failed", "entry_id", "abc")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "indexer", fields["component"])
	assert.Equal(t, "abc", fields["entry_id"])
	assert.Equal(t, "index failed", entries[0].Message)
}

func TestNopDiscards(t *testing.T) {
	l := NewNop()
	l.Info("nothing", "k", "v")
	l.Sync()
}
