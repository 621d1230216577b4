package dataaccess

import (
	"context"
	"sort"
	"sync"

	"github.com/Jacobbrewer1/migrator/pkg/entities"
)

type guildMemoryDal struct {
	mu      sync.RWMutex
	configs map[string]entities.GuildConfig
}

// NewMemoryGuildConfigDal creates a guild config data access layer that keeps records in memory. Records do not
// survive a restart.
func NewMemoryGuildConfigDal() GuildConfigDal {
	return &guildMemoryDal{
		configs: make(map[string]entities.GuildConfig),
	}
}

func (g *guildMemoryDal) GetGuildConfig(_ context.Context, guildID string) (*entities.GuildConfig, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	cfg, ok := g.configs[guildID]
	if !ok {
		return nil, ErrNotFound
	}
	return &cfg, nil
}

func (g *guildMemoryDal) SaveGuildConfig(_ context.Context, cfg *entities.GuildConfig) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.configs[cfg.GuildID] = *cfg
	return nil
}

func (g *guildMemoryDal) GuildIDs(_ context.Context) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]string, 0, len(g.configs))
	for id := range g.configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
