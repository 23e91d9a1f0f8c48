// Package log writes diagnostics to a daily file when logs.write is set.
// Until Setup enables it, every call is discarded.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/keypoint-cli/keypoint/constant"
	"github.com/keypoint-cli/keypoint/filesystem"
	"github.com/keypoint-cli/keypoint/key"
	"github.com/keypoint-cli/keypoint/where"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var std = discard()

func discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// File is the log file of the current day.
func File() string {
	return filepath.Join(where.Logs(), fmt.Sprintf("%s-%s.log", constant.Keypoint, time.Now().Format(time.DateOnly)))
}

// Setup configures logging from the logs.* settings.
func Setup() error {
	if !viper.GetBool(key.LogsWrite) {
		std = discard()
		return nil
	}

	f, err := filesystem.API().OpenFile(File(), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	l := logrus.New()
	l.SetOutput(f)
	if viper.GetBool(key.LogsJson) {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	std = l
	return nil
}

// Enabled reports whether records are written anywhere.
func Enabled() bool {
	return std.Out != io.Discard
}

func Error(args ...any)                 { std.Error(args...) }
func Errorf(format string, args ...any) { std.Errorf(format, args...) }
func Warn(args ...any)                  { std.Warn(args...) }
func Warnf(format string, args ...any)  { std.Warnf(format, args...) }
func Info(args ...any)                  { std.Info(args...) }
func Infof(format string, args ...any)  { std.Infof(format, args...) }
func Debugf(format string, args ...any) { std.Debugf(format, args...) }

// Entry tags records with fixed fields, like the component emitting them.
type Entry struct {
	fields logrus.Fields
}

// Component returns an Entry for the named part of the program.
func Component(name string) *Entry {
	return &Entry{fields: logrus.Fields{"component": name}}
}

// With returns a copy of e carrying one more field.
func (e *Entry) With(key string, value any) *Entry {
	fields := make(logrus.Fields, len(e.fields)+1)
	for k, v := range e.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Entry{fields: fields}
}

func (e *Entry) Errorf(format string, args ...any) { std.WithFields(e.fields).Errorf(format, args...) }
func (e *Entry) Warnf(format string, args ...any)  { std.WithFields(e.fields).Warnf(format, args...) }
func (e *Entry) Infof(format string, args ...any)  { std.WithFields(e.fields).Infof(format, args...) }
func (e *Entry) Debugf(format string, args ...any) { std.WithFields(e.fields).Debugf(format, args...) }
