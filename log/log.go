// Package log is the process log stream: every line goes to the console and to a log file.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop().Sugar()

// Init replaces the default (discarding) logger with one that writes to stdout and appends to
// the log file. The returned function flushes and closes the log file.
func Init(file string, debug bool) (func(), error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoder.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder.EncodeCaller = nil

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoder), zapcore.Lock(os.Stdout), level),
	}

	var f *os.File
	if file != "" {
		var err error
		if f, err = os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err != nil {
			return func() {}, fmt.Errorf("unable to open log file %v (%w)", file, err)
		}

		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoder), zapcore.AddSync(f), level))
	}

	l := zap.New(zapcore.NewTee(cores...))
	logger = l.Sugar()

	return func() {
		l.Sync()
		if f != nil {
			f.Close()
		}
	}, nil
}

// SetLogger installs an externally constructed logger, e.g. an observer in tests.
func SetLogger(l *zap.Logger) {
	logger = l.Sugar()
}

// With adds structured context (e.g. a run id) to every subsequent log line until the returned function
// restores the previous logger.
func With(keysAndValues ...any) func() {
	previous := logger
	logger = logger.With(keysAndValues...)

	return func() {
		logger = previous
	}
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warnf(format string, args ...any) {
	logger.Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}
