// Package logging configures the global zerolog logger: a console writer
// plus a size-rotated log file.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/denizhukuk/lawsite/internal/config"
)

const (
	DefaultLogFilePath = "lawsite.log"
	DefaultMaxSizeMB   = 50
	DefaultMaxBackups  = 5
	DefaultMaxAgeDays  = 30
	DefaultCompress    = true

	timeFormat = "2006-01-02 15:04:05"
)

// Rotation controls when lumberjack rolls the log file over.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// RotationFromSettings reads the log.* settings, keeping defaults for
// missing or out of range values.
func RotationFromSettings(loader *config.Loader) Rotation {
	r := Rotation{
		MaxSizeMB:  DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAgeDays: DefaultMaxAgeDays,
		Compress:   DefaultCompress,
	}
	if loader == nil {
		return r
	}

	if val := loader.Int("log.max_size_mb", DefaultMaxSizeMB); val > 0 {
		r.MaxSizeMB = val
	}
	if val := loader.Int("log.max_backups", DefaultMaxBackups); val >= 0 {
		r.MaxBackups = val
	}
	if val := loader.Int("log.max_age_days", DefaultMaxAgeDays); val >= 0 {
		r.MaxAgeDays = val
	}
	r.Compress = loader.Bool("log.compress", DefaultCompress)
	return r
}

// Apply sets the global log level and output writers (console + rotating file).
// logFilePath is the destination file; when empty, DefaultLogFilePath in the
// working directory is used.
func Apply(level string, loader *config.Loader, logFilePath string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	applyOutputs(RotationFromSettings(loader), logFilePath)
}

// ParseLevel maps a level name to a zerolog level. Unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LevelForVerbosity maps the -v count to a level name; zero defers to the
// log.level setting.
func LevelForVerbosity(count int, setting string) string {
	switch {
	case count >= 2:
		return "trace"
	case count == 1:
		return "debug"
	case setting != "":
		return setting
	default:
		return "info"
	}
}

func applyOutputs(rotation Rotation, logFilePath string) {
	if logFilePath == "" {
		logFilePath = DefaultLogFilePath
	}

	consoleOutput := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: timeFormat}
	log.Logger = zerolog.New(consoleOutput).With().Timestamp().Logger()

	if err := ensureLogDir(logFilePath); err != nil {
		log.Error().Err(err).Str("path", logFilePath).Msg("Failed to prepare log directory; logging to console only")
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    rotation.MaxSizeMB,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
		Compress:   rotation.Compress,
	}

	fileConsole := zerolog.ConsoleWriter{
		Out:        fileWriter,
		TimeFormat: timeFormat,
		NoColor:    true,
	}

	multi := zerolog.MultiLevelWriter(consoleOutput, fileConsole)
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()
}

// FilePathForDatabase returns a log file path next to a SQLite database
// file. In-memory and server databases log to the working directory.
func FilePathForDatabase(location string) string {
	if location == "" || location == ":memory:" || strings.Contains(location, "://") {
		return DefaultLogFilePath
	}
	absPath, err := filepath.Abs(location)
	if err != nil {
		return filepath.Join(filepath.Dir(location), DefaultLogFilePath)
	}
	return filepath.Join(filepath.Dir(absPath), DefaultLogFilePath)
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
