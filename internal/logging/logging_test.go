package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denizhukuk/lawsite/internal/config"
)

type settings map[string]string

func (s settings) GetSetting(_ context.Context, key string) (string, error) { return s[key], nil }

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("trace"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestLevelForVerbosity(t *testing.T) {
	assert.Equal(t, "info", LevelForVerbosity(0, ""))
	assert.Equal(t, "warn", LevelForVerbosity(0, "warn"))
	assert.Equal(t, "debug", LevelForVerbosity(1, "warn"))
	assert.Equal(t, "trace", LevelForVerbosity(3, ""))
}

func TestRotationFromSettings(t *testing.T) {
	r := RotationFromSettings(config.NewLoader(settings{
		"log.max_size_mb": "0",
		"log.max_backups": "2",
		"log.compress":    "false",
	}))
	assert.Equal(t, DefaultMaxSizeMB, r.MaxSizeMB, "zero size keeps default")
	assert.Equal(t, 2, r.MaxBackups)
	assert.Equal(t, DefaultMaxAgeDays, r.MaxAgeDays)
	assert.False(t, r.Compress)

	assert.Equal(t, DefaultMaxBackups, RotationFromSettings(nil).MaxBackups)
}

func TestFilePathForDatabase(t *testing.T) {
	assert.Equal(t, DefaultLogFilePath, FilePathForDatabase(""))
	assert.Equal(t, DefaultLogFilePath, FilePathForDatabase(":memory:"))
	assert.Equal(t, DefaultLogFilePath, FilePathForDatabase("postgres://app@db/lawsite"))
	assert.Equal(t, filepath.Join("/var/lib/lawsite", DefaultLogFilePath), FilePathForDatabase("/var/lib/lawsite/site.db"))
}

func TestApply_WritesToFile(t *testing.T) {
	previous := log.Logger
	previousLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(previousLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "lawsite.log")
	Apply("debug", nil, path)

	log.Debug().Str("component", "test").Msg("hello from the log file")
	log.Trace().Msg("filtered out")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello from the log file"))
	assert.False(t, strings.Contains(string(data), "filtered out"))
}
