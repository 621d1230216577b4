package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/migrator/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/migrator/pkg/entities"
	"github.com/Jacobbrewer1/migrator/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	guildDalName = "guild_config_dal"

	guildCollection = "guild_configs"
)

// GuildConfigDal stores one configuration record per guild. Records are always read and written whole.
type GuildConfigDal interface {
	// GetGuildConfig gets the configuration for a guild. ErrNotFound is returned if the guild has not been set up.
	GetGuildConfig(ctx context.Context, guildID string) (*entities.GuildConfig, error)

	// SaveGuildConfig replaces the configuration for a guild, creating it if needed.
	SaveGuildConfig(ctx context.Context, cfg *entities.GuildConfig) error

	// GuildIDs lists every guild with a configuration.
	GuildIDs(ctx context.Context) ([]string, error)
}

type guildDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewGuildConfigDal creates a new guild config data access layer backed by MongoDB.
func NewGuildConfigDal(l *slog.Logger) GuildConfigDal {
	l = l.With(slog.String(logging.KeyDal, guildDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &guildDalImpl{
		l:      l,
		client: MongoDB,
	}
}

func (g *guildDalImpl) collection() *mongo.Collection {
	return g.client.Database(mongoDatabase).Collection(guildCollection)
}

// SaveGuildConfig replaces the guild configuration.
func (g *guildDalImpl) SaveGuildConfig(ctx context.Context, cfg *entities.GuildConfig) error {
	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(guildDalName, "save_guild_config", mongoDatabase, guildCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildDalName, "save_guild_config", mongoDatabase, guildCollection))
	defer t.ObserveDuration()

	opts := options.Replace().SetUpsert(true)
	_, err := g.collection().ReplaceOne(ctx, bson.M{"guild_id": cfg.GuildID}, cfg, opts)
	if err != nil {
		return fmt.Errorf("error saving guild config: %w", err)
	}
	return nil
}

// GetGuildConfig gets a guild configuration by guild ID.
func (g *guildDalImpl) GetGuildConfig(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(guildDalName, "get_guild_config", mongoDatabase, guildCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildDalName, "get_guild_config", mongoDatabase, guildCollection))
	defer t.ObserveDuration()

	cfg := new(entities.GuildConfig)
	err := g.collection().FindOne(ctx, bson.M{"guild_id": guildID}).Decode(cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting guild config: %w", err)
	}
	return cfg, nil
}

// GuildIDs lists every configured guild.
func (g *guildDalImpl) GuildIDs(ctx context.Context) ([]string, error) {
	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(guildDalName, "guild_ids", mongoDatabase, guildCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(guildDalName, "guild_ids", mongoDatabase, guildCollection))
	defer t.ObserveDuration()

	values, err := g.collection().Distinct(ctx, "guild_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing guilds: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		id, ok := v.(string)
		if !ok {
			g.l.Warn("Skipping guild config with a non-string guild ID", slog.String("type", fmt.Sprintf("%T", v)))
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
