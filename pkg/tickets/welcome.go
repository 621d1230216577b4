package tickets

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Jacobbrewer1/migrator/pkg/logging"
)

// Welcomer greets new members of active guilds.
type Welcomer struct {
	// l is the logger.
	l *slog.Logger

	configs *ConfigService
	gw      Gateway
}

// NewWelcomer creates a new welcomer.
func NewWelcomer(l *slog.Logger, configs *ConfigService, gw Gateway) *Welcomer {
	return &Welcomer{
		l:       l.With(slog.String(logging.KeyComponent, "welcomer")),
		configs: configs,
		gw:      gw,
	}
}

// MemberJoined sends the welcome message for the guild, if one is set. It reports whether a message was sent.
func (w *Welcomer) MemberJoined(ctx context.Context, guildID, userID string) bool {
	l := w.l.With(
		slog.String(logging.KeyGuildID, guildID),
		slog.String(logging.KeyUserID, userID),
	)

	cfg, err := w.configs.Active(ctx, guildID)
	if errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrDisabled) {
		return false
	} else if err != nil {
		l.Error("Error getting guild config", slog.String(logging.KeyError, err.Error()))
		return false
	}

	msg, ok := cfg.WelcomeFor("<@" + userID + ">")
	if !ok {
		return false
	}

	if _, err := w.gw.SendMessage(cfg.WelcomeChannelID, msg); err != nil {
		l.Warn("Error sending welcome message", slog.String(logging.KeyError, err.Error()))
		return false
	}
	return true
}
