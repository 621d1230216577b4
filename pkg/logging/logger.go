package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel is the environment variable for the log level.
const EnvLogLevel = `LOG_LEVEL`

// Name is the name of the application the logger belongs to.
type Name string

// Config is the configuration for the logger.
type Config struct {
	// appName is added to every log line.
	appName string

	// level is the minimum level that is logged.
	level string

	// w is where the logs are written.
	w io.Writer
}

// NewConfig creates a new logger configuration for the application. The level is read from the environment.
func NewConfig(name Name) *Config {
	return &Config{
		appName: string(name),
		level:   os.Getenv(EnvLogLevel),
		w:       os.Stdout,
	}
}

// WithWriter sets the writer the logs are written to.
func (c *Config) WithWriter(w io.Writer) *Config {
	c.w = w
	return c
}

// CommonLogger creates the JSON logger used across the application and sets it as the default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	lvl, err := parseLevel(c.level)
	if err != nil {
		return nil, err
	}

	h := slog.NewJSONHandler(c.w, &slog.HandlerOptions{
		AddSource: true,
		Level:     lvl,
	})

	l := slog.New(h).With(slog.String("app", c.appName))
	slog.SetDefault(l)
	return l, nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}
