// Package logger holds the process-wide zap logger. Console output is
// colored text; the optional log file is JSON, rotated by lumberjack.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Faultbox/fridgeview/internal/config"
)

// Log is the global logger. It discards everything until Init or Setup.
var Log = zap.NewNop()

// level gates every core and can be changed while running.
var level = zap.NewAtomicLevel()

// Rotation bounds the log file.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultRotation keeps a week of logs in at most four files.
var DefaultRotation = Rotation{MaxSizeMB: 20, MaxBackups: 3, MaxAgeDays: 7, Compress: true}

// Options selects the logger outputs.
type Options struct {
	Level    string // debug, info, warn or error; empty means info
	File     string // empty disables file output
	Rotation Rotation
	Console  bool
}

// Init sets up console logging plus the configured log file.
func Init(cfg config.LoggingConfig) error {
	return Setup(Options{
		Level:    cfg.Level,
		File:     cfg.LogFile,
		Rotation: DefaultRotation,
		Console:  true,
	})
}

// Setup replaces the global logger.
func Setup(opts Options) error {
	lvl, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	level.SetLevel(lvl)

	var cores []zapcore.Core
	if opts.Console {
		enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			NameKey:          "logger",
			MessageKey:       "msg",
			CallerKey:        "caller",
			EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05.000"),
			EncodeLevel:      zapcore.CapitalColorLevelEncoder,
			EncodeCaller:     zapcore.ShortCallerEncoder,
			EncodeName:       zapcore.FullNameEncoder,
			EncodeDuration:   zapcore.StringDurationEncoder,
			ConsoleSeparator: " ",
		})
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level))
	}
	if opts.File != "" {
		cores = append(cores, fileCore(opts.File, opts.Rotation))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return nil
}

func fileCore(path string, r Rotation) zapcore.Core {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    r.MaxSizeMB,
		MaxBackups: r.MaxBackups,
		MaxAge:     r.MaxAgeDays,
		Compress:   r.Compress,
		LocalTime:  true,
	}
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		CallerKey:      "caller",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	})
	return zapcore.NewCore(enc, zapcore.AddSync(w), level)
}

// Level returns the live level. It serves GET and PUT of {"level": ...}
// over HTTP.
func Level() zap.AtomicLevel {
	return level
}

// SetSession tags every later entry with the viewer session ID.
func SetSession(id string) {
	Log = Log.With(zap.String("session", id))
}

// Named returns a child of the global logger for one component.
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}

func Debug(msg string, fields ...zap.Field) { Log.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Log.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Log.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Log.Error(msg, fields...) }
