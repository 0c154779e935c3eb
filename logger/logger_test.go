package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"storymap/logger"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLog(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromWriter(buff).Make()
	require.NoError(t, err)
	require.NotNil(t, templogger)

	require.Equal(t, buff.Len(), 0)
	templogger.Logger.Info().Msg("Test")
	require.Contains(t, buff.String(), "Test")
	require.Contains(t, buff.String(), `"time"`)
}

func TestLevelFilters(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	build, err := logger.New().FromWriter(buff).LevelString("warn")
	require.NoError(t, err)
	templogger, err := build.Make()
	require.NoError(t, err)

	templogger.Logger.Info().Msg("quiet")
	templogger.Logger.Warn().Msg("loud")
	require.NotContains(t, buff.String(), "quiet")
	require.Contains(t, buff.String(), "loud")

	_, err = logger.New().LevelString("shouting")
	require.Error(t, err)
}

func TestLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storymap.log")
	templogger, err := logger.New().FromPath(path).Level(zerolog.DebugLevel).Make()
	require.NoError(t, err)

	templogger.Logger.Debug().Str("k", "v").Msg("to file")
	require.NoError(t, templogger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "to file")
}

func TestNoDestinationDiscards(t *testing.T) {
	templogger, err := logger.New().Make()
	require.NoError(t, err)
	require.NoError(t, templogger.Close())
	templogger.Logger.Error().Msg("nowhere")
}
