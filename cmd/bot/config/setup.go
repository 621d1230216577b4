package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Jacobbrewer1/migrator/pkg/dataaccess"
	"github.com/Jacobbrewer1/migrator/pkg/dataaccess/connection"
	"github.com/joho/godotenv"
)

// Parse loads the configuration from a .env file, if present, and the environment, then connects to MongoDB
// when a URI is configured.
func Parse(l *slog.Logger) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}

	if err := readEnv(l); err != nil {
		return err
	}

	if MongoUri == "" {
		l.Warn("No MongoDB URI provided, guild configuration will not survive a restart", slog.String("key", EnvMongoUri))
		return nil
	}
	return connectMongo(l)
}

func readEnv(l *slog.Logger) error {
	var missing []string
	required := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			l.Debug("Found value in environment", slog.String("key", key))
			*dst = v
			return
		}
		missing = append(missing, key)
	}
	optional := func(key string, dst *string, def string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			l.Debug("Found value in environment", slog.String("key", key))
			*dst = v
			return
		}
		*dst = def
	}

	required(EnvBotToken, &BotToken)
	required(EnvApplicationId, &ApplicationId)
	required(EnvBotOwnerId, &BotOwnerId)

	optional(EnvMongoUri, &MongoUri, "")
	optional(EnvGoogleCreds, &GoogleCreds, "")
	optional(EnvSheetTab, &SheetTab, defaultSheetTab)
	optional(EnvMonitoringPort, &MonitoringPort, defaultMonitoringPort)

	SweepInterval = defaultSweepInterval
	if v := strings.TrimSpace(os.Getenv(EnvSweepInterval)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", EnvSweepInterval, err)
		} else if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", EnvSweepInterval, v)
		}
		SweepInterval = d
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	l.Debug("All required environment variables have been provided")
	return nil
}

func connectMongo(l *slog.Logger) error {
	mongoConn := new(connection.MongoDB)
	mongoConn.ConnectionString = MongoUri

	db, err := mongoConn.Connect(context.Background())
	if err != nil {
		return fmt.Errorf("error connecting to mongo: %w", err)
	}

	dataaccess.MongoDB = db

	l.Debug("Connected to MongoDB", slog.String("key", EnvMongoUri))
	return nil
}
