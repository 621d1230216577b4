package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Jacobbrewer1/migrator/pkg/dataaccess"
	"github.com/Jacobbrewer1/migrator/pkg/dataaccess/connection"
	"github.com/alexliesenfeld/health"
)

func (a *App) healthCheck() http.HandlerFunc {
	opts := []health.CheckerOption{
		// Set a TTL of 1 second for the results of the checks.
		health.WithCacheDuration(1 * time.Second),

		// Set a timeout of 2 seconds for the checks.
		health.WithTimeout(2 * time.Second),

		// Monitor the health of the Discord API.
		health.WithPeriodicCheck(15*time.Second, 5*time.Second, health.Check{
			Name: "Discord_API",
			Check: func(ctx context.Context) error {
				if _, err := a.Session().GatewayBot(); err != nil {
					return fmt.Errorf("failed to ping Discord API: %w", err)
				}
				return nil
			},
			Timeout:        3 * time.Second,
			StatusListener: a.healthStatusListener,
		}),
	}

	// Monitor the health of the database (MongoDB) when one is configured.
	if dataaccess.MongoDB != nil {
		opts = append(opts, health.WithCheck(health.Check{
			Name: "MongoDB",
			Check: func(ctx context.Context) error {
				return connection.Ping(ctx, dataaccess.MongoDB)
			},
			Timeout:        2 * time.Second,
			StatusListener: a.healthStatusListener,
		}))
	}

	return health.NewHandler(health.NewChecker(opts...))
}

func (a *App) healthStatusListener(_ context.Context, name string, state health.CheckState) {
	a.Log().Info("Health check status changed",
		slog.String("name", name),
		slog.String("state", string(state.Status)),
	)
}
