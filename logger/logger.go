// Package logger builds the zerolog loggers used across storymap.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

// LogBuild collects logger options. The zero destination discards output.
type LogBuild struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

// LogData is a built logger together with the file it writes to, if any.
type LogData struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *LogBuild {
	return &LogBuild{level: zerolog.InfoLevel}
}

// FromPath appends log lines to the file at path.
func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

// FromWriter writes log lines to w. A path takes precedence.
func (build *LogBuild) FromWriter(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

func (build *LogBuild) Level(l zerolog.Level) *LogBuild {
	build.level = l
	return build
}

// LevelString sets the level by name ("debug", "info", ...).
func (build *LogBuild) LevelString(s string) (*LogBuild, error) {
	if s == "" {
		return build, nil
	}
	l, err := zerolog.ParseLevel(s)
	if err != nil {
		return build, fmt.Errorf("log level %q: %w", s, err)
	}
	build.level = l
	return build, nil
}

func (build *LogBuild) Make() (logData *LogData, err error) {
	logData = new(LogData)
	writer := build.writer
	if build.path != "" {
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		writer = zerolog.SyncWriter(logData.LogFile)
	}
	if writer == nil {
		logData.Logger = zerolog.Nop()
		return
	}
	logData.Logger = zerolog.New(writer).Level(build.level).With().Timestamp().Logger()
	return
}

// Close closes the log file, if any.
func (logData *LogData) Close() error {
	if logData.LogFile == nil {
		return nil
	}
	return logData.LogFile.Close()
}
