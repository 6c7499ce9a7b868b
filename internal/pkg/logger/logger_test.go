package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_InvalidLevel(t *testing.T) {
	err := Init(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestInit_ErrorLogOnlyKeepsErrors(t *testing.T) {
	dir := t.TempDir()
	prev := log.Logger
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	})

	require.NoError(t, Init(Config{
		Level:         "debug",
		Format:        "json",
		FileEnabled:   true,
		FilePath:      dir,
		RotationSize:  1,
		RetentionDays: 1,
		ServiceName:   "test",
	}))

	log.Info().Msg("breadth collected")
	log.Error().Msg("naver request failed")

	app, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(app), "breadth collected")
	assert.Contains(t, string(app), "naver request failed")

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "naver request failed")
	assert.False(t, strings.Contains(string(errLog), "breadth collected"))
}

func TestNewQueryLogger_NoPath(t *testing.T) {
	l := NewQueryLogger("", 1, 1)
	assert.Equal(t, log.Logger.GetLevel(), l.GetLevel())
}
