package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/migrator/pkg/dataaccess"
	"github.com/Jacobbrewer1/migrator/pkg/entities"
	"github.com/Jacobbrewer1/migrator/pkg/logging"
)

// RenewalPeriod is the length of a subscription period.
const RenewalPeriod = 30 * 24 * time.Hour

// ConfigService is the only entry point for reading and mutating guild configuration. Every mutation is a
// read-modify-write of the whole record, serialized within the process.
type ConfigService struct {
	// l is the logger.
	l *slog.Logger

	// mu serializes mutations.
	mu sync.Mutex

	// dal is the backing store.
	dal dataaccess.GuildConfigDal

	// ownerID is the user allowed to set up and renew guilds.
	ownerID string

	// now returns the current time.
	now func() time.Time
}

// NewConfigService creates a new config service.
func NewConfigService(l *slog.Logger, dal dataaccess.GuildConfigDal, ownerID string) *ConfigService {
	return &ConfigService{
		l:       l.With(slog.String(logging.KeyComponent, "config_service")),
		dal:     dal,
		ownerID: ownerID,
		now:     time.Now,
	}
}

// Get returns the configuration for a guild, whether active or not.
func (c *ConfigService) Get(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	cfg, err := c.dal.GetGuildConfig(ctx, guildID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return nil, ErrNotConfigured
	} else if err != nil {
		return nil, unavailable("getting guild config", err)
	}
	return cfg, nil
}

// Active returns the configuration for a guild with a live subscription. This is the precondition for every
// guild command other than setup and renewal.
func (c *ConfigService) Active(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	cfg, err := c.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if cfg.Disabled {
		return nil, ErrDisabled
	}
	return cfg, nil
}

// GuildIDs lists every configured guild.
func (c *ConfigService) GuildIDs(ctx context.Context) ([]string, error) {
	ids, err := c.dal.GuildIDs(ctx)
	if err != nil {
		return nil, unavailable("listing guilds", err)
	}
	return ids, nil
}

// Update applies fn to the current record and writes the whole record back. fn may return errSkipSave to leave
// the record as it is.
func (c *ConfigService) Update(ctx context.Context, guildID string, fn func(cfg *entities.GuildConfig) error) (*entities.GuildConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg, err := c.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if err := fn(cfg); errors.Is(err, errSkipSave) {
		return cfg, nil
	} else if err != nil {
		return nil, err
	}

	if err := c.dal.SaveGuildConfig(ctx, cfg); err != nil {
		return nil, unavailable("saving guild config", err)
	}
	return cfg, nil
}

// Setup provisions a guild, overwriting any existing record, and starts a new subscription period.
func (c *ConfigService) Setup(ctx context.Context, actorID string, cfg entities.GuildConfig) (*entities.GuildConfig, error) {
	if actorID != c.ownerID {
		return nil, ErrForbidden
	}

	cfg.Renew(c.now(), RenewalPeriod)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.dal.SaveGuildConfig(ctx, &cfg); err != nil {
		return nil, unavailable("saving guild config", err)
	}

	c.l.Info("Guild set up",
		slog.String(logging.KeyGuildID, cfg.GuildID),
		slog.String("expires_at", cfg.ExpiresAt.String()),
	)
	return &cfg, nil
}

// Renew extends the subscription for a guild by a full period from now and clears the warning and expiry flags.
func (c *ConfigService) Renew(ctx context.Context, actorID, guildID string) (*entities.GuildConfig, error) {
	if actorID != c.ownerID {
		return nil, ErrForbidden
	}

	cfg, err := c.Update(ctx, guildID, func(cfg *entities.GuildConfig) error {
		cfg.Renew(c.now(), RenewalPeriod)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.l.Info("Guild subscription renewed",
		slog.String(logging.KeyGuildID, guildID),
		slog.String("expires_at", cfg.ExpiresAt.String()),
	)
	return cfg, nil
}

// SetWelcomeMessage sets the welcome message for an active guild. Only holders of the approve role may do this.
func (c *ConfigService) SetWelcomeMessage(ctx context.Context, guildID string, actorRoles []string, message string) error {
	cfg, err := c.Active(ctx, guildID)
	if err != nil {
		return err
	}
	if !cfg.HasApproveRole(actorRoles) {
		return ErrForbidden
	}

	_, err = c.Update(ctx, guildID, func(cfg *entities.GuildConfig) error {
		cfg.WelcomeMessage = message
		return nil
	})
	return err
}
