package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/migrator/pkg/entities"
	"github.com/Jacobbrewer1/migrator/pkg/logging"
	"github.com/Jacobbrewer1/migrator/pkg/messages"
	"golang.org/x/time/rate"
)

const (
	// WarningWindow is how long before expiry the warning is broadcast.
	WarningWindow = 5 * 24 * time.Hour

	// DefaultSweepInterval is how often subscriptions are checked.
	DefaultSweepInterval = time.Hour

	// broadcastRate paces warning messages across channels.
	broadcastRate = 2 * time.Second
)

// SweepResult is what a sweep did to a guild.
type SweepResult string

const (
	SweepNoop     SweepResult = "noop"
	SweepWarned   SweepResult = "warned"
	SweepDisabled SweepResult = "disabled"
)

// SubscriptionScheduler periodically warns guilds about to expire and disables expired ones.
type SubscriptionScheduler struct {
	// l is the logger.
	l *slog.Logger

	configs  *ConfigService
	gw       Gateway
	interval time.Duration

	// limiter paces broadcast messages.
	limiter *rate.Limiter

	// onSweep is called with the result of every guild sweep.
	onSweep func(guildID string, result SweepResult)

	// now returns the current time.
	now func() time.Time
}

// NewSubscriptionScheduler creates a new scheduler. A non-positive interval uses DefaultSweepInterval.
func NewSubscriptionScheduler(l *slog.Logger, configs *ConfigService, gw Gateway, interval time.Duration) *SubscriptionScheduler {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &SubscriptionScheduler{
		l:        l.With(slog.String(logging.KeyComponent, "subscriptions")),
		configs:  configs,
		gw:       gw,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(broadcastRate), 5),
		onSweep:  func(string, SweepResult) {},
		now:      time.Now,
	}
}

// OnSweep registers a hook called with the result of every guild sweep.
func (s *SubscriptionScheduler) OnSweep(fn func(guildID string, result SweepResult)) {
	s.onSweep = fn
}

// Run sweeps immediately and then on every interval until the context is cancelled.
func (s *SubscriptionScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.l.Error("Error sweeping subscriptions", slog.String(logging.KeyError, err.Error()))
		}

		select {
		case <-ctx.Done():
			s.l.Info("Subscription scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce sweeps every guild. An error for one guild does not stop the rest; all errors are joined.
func (s *SubscriptionScheduler) RunOnce(ctx context.Context) error {
	ids, err := s.configs.GuildIDs(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, id := range ids {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		result, err := s.sweepGuild(ctx, id)
		if err != nil {
			s.l.Error("Error sweeping guild",
				slog.String(logging.KeyGuildID, id),
				slog.String(logging.KeyError, err.Error()),
			)
			errs = append(errs, fmt.Errorf("guild %s: %w", id, err))
			continue
		}
		s.onSweep(id, result)
	}
	return errors.Join(errs...)
}

func (s *SubscriptionScheduler) sweepGuild(ctx context.Context, guildID string) (SweepResult, error) {
	now := s.now()
	result := SweepNoop

	_, err := s.configs.Update(ctx, guildID, func(cfg *entities.GuildConfig) error {
		remaining := cfg.Remaining(now)
		switch {
		case remaining <= 0:
			if cfg.Disabled {
				return errSkipSave
			}
			cfg.Disabled = true
			result = SweepDisabled
		case remaining < WarningWindow && !cfg.Warned:
			cfg.Warned = true
			result = SweepWarned
		default:
			return errSkipSave
		}
		return nil
	})
	if err != nil {
		return SweepNoop, err
	}

	l := s.l.With(slog.String(logging.KeyGuildID, guildID))
	switch result {
	case SweepDisabled:
		l.Info("Guild subscription expired, disabling")
	case SweepWarned:
		l.Info("Guild subscription expiring soon, warning")
		s.broadcast(ctx, guildID, messages.ExpiryWarning)
	}
	return result, nil
}

// broadcast posts to every text channel the bot can send to. Failures are logged and swallowed.
func (s *SubscriptionScheduler) broadcast(ctx context.Context, guildID, content string) {
	l := s.l.With(slog.String(logging.KeyGuildID, guildID))

	channels, err := s.gw.PostableTextChannels(guildID)
	if err != nil {
		l.Warn("Error listing channels for broadcast", slog.String(logging.KeyError, err.Error()))
		return
	}

	sent := 0
	for _, ch := range channels {
		if err := s.limiter.Wait(ctx); err != nil {
			l.Warn("Broadcast interrupted", slog.String(logging.KeyError, err.Error()))
			return
		}
		if _, err := s.gw.SendMessage(ch, content); err != nil {
			l.Debug("Error sending broadcast",
				slog.String(logging.KeyChannelID, ch),
				slog.String(logging.KeyError, err.Error()),
			)
			continue
		}
		sent++
	}
	l.Info("Broadcast sent", slog.Int("channels", len(channels)), slog.Int("sent", sent))
}
