package config

import (
	"io"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerConfig struct {
	// Print human-readable output to console
	ConsoleLoggingEnabled bool

	DebugModeEnabled bool

	// the fields below are ignored unless FileLoggingEnabled is set
	FileLoggingEnabled bool
	Directory          string
	Filename           string
	MaxSize            int // megabytes
	MaxBackups         int
	MaxAge             int // days
}

func getenvInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}

func getenvBool(key string) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func buildLoggerConfig(debug bool) (*LoggerConfig, error) {
	conf := LoggerConfig{DebugModeEnabled: debug}

	var err error
	if conf.ConsoleLoggingEnabled, err = getenvBool("CONSOLE_LOGGING_ENABLED"); err != nil {
		return nil, err
	}
	if conf.FileLoggingEnabled, err = getenvBool("FILE_LOGGING_ENABLED"); err != nil {
		return nil, err
	}
	if !conf.FileLoggingEnabled {
		return &conf, nil
	}

	conf.Directory = os.Getenv("LOGS_DIRECTORY")
	if conf.Directory == "" {
		conf.Directory = "logs"
	}
	conf.Filename = os.Getenv("LOGS_FILE_NAME")
	if conf.Filename == "" {
		conf.Filename = "ward-calendar.log"
	}
	if conf.MaxSize, err = getenvInt("LOGS_MAX_SIZE", 10); err != nil {
		return nil, err
	}
	if conf.MaxBackups, err = getenvInt("LOGS_MAX_BACKUPS", 10); err != nil {
		return nil, err
	}
	if conf.MaxAge, err = getenvInt("LOGS_MAX_AGE", 10); err != nil {
		return nil, err
	}
	return &conf, nil
}

// ConfigureLogger falls back to plain stderr JSON output when the logging
// environment is malformed.
func ConfigureLogger(debug bool) *zerolog.Logger {
	conf, err := buildLoggerConfig(debug)
	if err != nil {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Warn().Err(err).Msg("invalid logging configuration, using defaults")
		conf = &LoggerConfig{DebugModeEnabled: debug}
	}

	var writers []io.Writer
	if conf.ConsoleLoggingEnabled {
		writers = append(writers, zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
			w.TimeFormat = time.RFC3339
		}))
	} else {
		writers = append(writers, os.Stderr)
	}
	if conf.FileLoggingEnabled {
		if err := os.MkdirAll(conf.Directory, 0o744); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   path.Join(conf.Directory, conf.Filename),
				MaxBackups: conf.MaxBackups,
				MaxSize:    conf.MaxSize,
				MaxAge:     conf.MaxAge,
			})
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger()

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	logger.Debug().
		Bool("consoleLogging", conf.ConsoleLoggingEnabled).
		Bool("fileLogging", conf.FileLoggingEnabled).
		Str("logDirectory", conf.Directory).
		Msg("logging configured")

	return &logger
}
