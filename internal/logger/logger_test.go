package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(Config{Prefix: "geo", Level: log.WarnLevel, Output: &buf})

	l.Info("hidden")
	l.Warn("shown", "query", "berlin")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "geo")
	assert.Contains(t, out, "query=berlin")
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tui.log")
	l, closer, err := NewFile(path, "tui", log.DebugLevel)
	require.NoError(t, err)

	l.Debug("selected", "name", "Bern")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name=Bern")
	assert.Contains(t, string(data), "prefix=tui")
}

func TestSetup(t *testing.T) {
	prev := log.GetLevel()
	t.Cleanup(func() {
		log.SetLevel(prev)
		log.SetReportCaller(false)
	})

	Setup(true)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	Setup(false)
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
