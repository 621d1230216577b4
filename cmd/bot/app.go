package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/migrator/cmd/bot/config"
	"github.com/Jacobbrewer1/migrator/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/migrator/pkg/dataaccess"
	"github.com/Jacobbrewer1/migrator/pkg/ledger"
	"github.com/Jacobbrewer1/migrator/pkg/logging"
	"github.com/Jacobbrewer1/migrator/pkg/request"
	"github.com/Jacobbrewer1/migrator/pkg/tickets"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for health check.
	PathHealth = "/health"

	// shutdownTimeout bounds the graceful shutdown of the monitoring server.
	shutdownTimeout = 10 * time.Second
)

// IApp is the interface for the application.
type IApp interface {
	// Session returns the discord session.
	Session() *discordgo.Session

	// Log returns the logger.
	Log() *slog.Logger

	// Tickets returns the ticket workflow.
	Tickets() *tickets.Service
}

type App struct {
	// is the logger.
	*slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	// svc is the ticket workflow.
	svc *tickets.Service

	// commands are the registered slash commands.
	commands []*discordgo.ApplicationCommand

	// stopScheduler stops the subscription scheduler.
	stopScheduler context.CancelFunc
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		Logger: l,
		r:      r,
	}
}

func (a *App) Run() error {
	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	if err := a.setupTickets(context.Background()); err != nil {
		return fmt.Errorf("error setting up tickets: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info("Logged in", slog.String("username", r.User.Username))
	})

	a.RegisterDiscordHandlers()

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.startScheduler()

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	sig := <-c
	a.Info("Received shutdown signal", slog.String("signal", sig.String()))
	return a.ShutdownHook()
}

func (a *App) ShutdownHook() error {
	if a.stopScheduler != nil {
		a.stopScheduler()
	}

	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	var errs []error

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		errs = append(errs, fmt.Errorf("error unregistering slash commands: %w", err))
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing connection to Discord: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.svr != nil {
		if err := a.svr.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down monitoring server: %w", err))
		}
	}

	if dataaccess.MongoDB != nil {
		if err := dataaccess.MongoDB.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error disconnecting from mongo: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	if a.eventNotifier == nil {
		// Create event notifier. It is buffered to prevent blocking.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg
	return nil
}

// setupTickets builds the ticket workflow on the configured stores. Without MongoDB or Google credentials the
// in-memory stores are used.
func (a *App) setupTickets(ctx context.Context) error {
	var dal dataaccess.GuildConfigDal
	if dataaccess.MongoDB != nil {
		dal = dataaccess.NewGuildConfigDal(a.Logger)
	} else {
		a.Warn("Using in-memory guild configuration")
		dal = dataaccess.NewMemoryGuildConfigDal()
	}

	var led ledger.Client
	if config.GoogleCreds != "" {
		var err error
		led, err = ledger.NewGoogleClient(ctx, a.Logger, []byte(config.GoogleCreds), config.SheetTab)
		if err != nil {
			return fmt.Errorf("error creating ledger: %w", err)
		}
	} else {
		a.Warn("No Google credentials provided, using in-memory ledger", slog.String("key", config.EnvGoogleCreds))
		led = ledger.NewMemory()
	}

	a.svc = tickets.NewService(a.Logger, dal, led, newDiscordGateway(a.s), config.BotOwnerId, config.SweepInterval)
	a.svc.Scheduler.OnSweep(func(_ string, result tickets.SweepResult) {
		monitoring.SubscriptionSweeps.WithLabelValues(string(result)).Inc()
	})
	return nil
}

func (a *App) startScheduler() {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopScheduler = cancel
	go a.svc.Scheduler.Run(ctx)
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("port", config.MonitoringPort))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a, a.healthCheck())).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:              ":" + config.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *App) RegisterDiscordHandlers() {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Member joined guild.
	a.s.AddHandler(memberJoinedHandler(a))

	// Interview answers.
	a.s.AddHandler(messageCreateHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a, commandProcessors()))
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

// registerSlashCommands registers the commands globally so new guilds get them without a restart.
func (a *App) registerSlashCommands() error {
	cmds, err := a.s.ApplicationCommandBulkOverwrite(config.ApplicationId, "", slashCommands)
	if err != nil {
		return fmt.Errorf("error creating commands: %w", err)
	}
	a.commands = cmds
	a.Debug("Registered slash commands", slog.Int("count", len(cmds)))
	return nil
}

func (a *App) unregisterSlashCommands() error {
	var errs []error
	for _, cmd := range a.commands {
		if err := a.s.ApplicationCommandDelete(config.ApplicationId, "", cmd.ID); err != nil {
			errs = append(errs, fmt.Errorf("error deleting command %s: %w", cmd.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Tickets() *tickets.Service {
	return a.svc
}
