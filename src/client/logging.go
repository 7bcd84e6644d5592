package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/apimgr/assetsearch/src/client/paths"
)

var (
	logger     *slog.Logger
	loggerOnce sync.Once
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level    string // debug, info, warn, error (default: warn)
	File     string // Log file path (empty = {log_dir}/cli.log)
	MaxSize  int    // Max log file size in MB (default: 10)
	MaxFiles int    // Max log files to keep (default: 5)
}

// GetLogConfig returns logging configuration from viper
func GetLogConfig() LogConfig {
	return LogConfig{
		Level:    viper.GetString("logging.level"),
		File:     viper.GetString("logging.file"),
		MaxSize:  viper.GetInt("logging.max_size"),
		MaxFiles: viper.GetInt("logging.max_files"),
	}
}

// parseLevel maps a config level to slog; unknown values mean warn.
func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// InitLogging installs the CLI logger as slog's default. Records go to a
// rotating JSON file; warnings and errors are also echoed to stderr.
func InitLogging() error {
	var initErr error
	loggerOnce.Do(func() {
		cfg := GetLogConfig()

		logPath := cfg.File
		if logPath == "" {
			logPath = paths.LogFile()
		}
		logPath = paths.Expand(logPath)

		var file io.Writer = io.Discard
		if err := paths.EnsureFile(logPath); err != nil {
			initErr = fmt.Errorf("create log dir: %w", err)
		} else {
			maxSize := cfg.MaxSize
			if maxSize == 0 {
				maxSize = 10
			}
			maxFiles := cfg.MaxFiles
			if maxFiles == 0 {
				maxFiles = 5
			}
			file = &lumberjack.Logger{
				Filename:   logPath,
				MaxSize:    maxSize, // MB
				MaxBackups: maxFiles,
				MaxAge:     30, // days
				Compress:   true,
			}
		}

		logger = newLogger(cfg, file, os.Stderr)
		slog.SetDefault(logger)
	})
	return initErr
}

func newLogger(cfg LogConfig, file, console io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	return slog.New(teeHandler{
		slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}),
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: max(level, slog.LevelWarn)}),
	})
}

// Logger returns the CLI logger
func Logger() *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return logger
}

// teeHandler sends each record to every handler that accepts its level.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
