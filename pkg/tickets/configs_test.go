package tickets

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/migrator/pkg/entities"
	"github.com/stretchr/testify/require"
)

func TestConfigService_Setup(t *testing.T) {
	ctx := context.Background()

	t.Run("owner only", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.svc.Setup(ctx, member("mallory"), *testConfig(time.Time{}))
		require.ErrorIs(t, err, ErrForbidden)

		_, err = h.svc.Configs.Get(ctx, testGuild)
		require.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("invalid", func(t *testing.T) {
		h := newHarness(t)
		cfg := *testConfig(time.Time{})
		cfg.SheetID = ""
		cfg.ApproveRoleID = " "

		_, err := h.svc.Setup(ctx, Actor{ID: testOwner}, cfg)
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.ErrorContains(t, err, "sheet_id is required")
		require.ErrorContains(t, err, "approve_role is required")
	})

	t.Run("starts a subscription", func(t *testing.T) {
		h := newHarness(t)
		old := h.provision(t, -time.Hour)
		old.Warned = true
		old.Disabled = true
		old.WelcomeMessage = "hi {user}"
		require.NoError(t, h.dal.SaveGuildConfig(ctx, old))

		cfg := *testConfig(time.Time{})
		got, err := h.svc.Setup(ctx, Actor{ID: testOwner}, cfg)
		require.NoError(t, err)
		require.Equal(t, h.now.Add(RenewalPeriod), got.ExpiresAt.Time())

		stored := h.stored(t)
		require.False(t, stored.Warned)
		require.False(t, stored.Disabled)
		require.Empty(t, stored.WelcomeMessage, "setup overwrites the whole record")
	})
}

func TestConfigService_Active(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.svc.Configs.Active(ctx, testGuild)
	require.ErrorIs(t, err, ErrNotConfigured)

	cfg := h.provision(t, time.Hour)
	got, err := h.svc.Configs.Active(ctx, testGuild)
	require.NoError(t, err)
	require.Equal(t, cfg.SheetID, got.SheetID)

	cfg.Disabled = true
	require.NoError(t, h.dal.SaveGuildConfig(ctx, cfg))
	_, err = h.svc.Configs.Active(ctx, testGuild)
	require.ErrorIs(t, err, ErrDisabled)
}

func TestConfigService_Renew(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.svc.Renew(ctx, Actor{ID: testOwner}, testGuild)
	require.ErrorIs(t, err, ErrNotConfigured)

	cfg := h.provision(t, -time.Minute)
	cfg.Warned = true
	cfg.Disabled = true
	cfg.WelcomeMessage = "hello"
	require.NoError(t, h.dal.SaveGuildConfig(ctx, cfg))

	_, err = h.svc.Renew(ctx, officer("bob"), testGuild)
	require.ErrorIs(t, err, ErrForbidden)
	require.True(t, h.stored(t).Disabled)

	_, err = h.svc.Renew(ctx, Actor{ID: testOwner}, testGuild)
	require.NoError(t, err)

	stored := h.stored(t)
	require.Equal(t, h.now.Add(RenewalPeriod), stored.ExpiresAt.Time())
	require.False(t, stored.Warned)
	require.False(t, stored.Disabled)
	require.Equal(t, "hello", stored.WelcomeMessage)
}

func TestConfigService_SetWelcomeMessage(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.ErrorIs(t, h.svc.SetWelcomeMessage(ctx, officer("bob"), testGuild, "hi"), ErrNotConfigured)

	h.provision(t, time.Hour)
	require.ErrorIs(t, h.svc.SetWelcomeMessage(ctx, member("mallory"), testGuild, "hi"), ErrForbidden)
	require.Empty(t, h.stored(t).WelcomeMessage)

	require.NoError(t, h.svc.SetWelcomeMessage(ctx, officer("bob"), testGuild, "Welcome {user}!"))
	require.Equal(t, "Welcome {user}!", h.stored(t).WelcomeMessage)
}

func TestConfigService_UpdateIsSerialized(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.provision(t, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := h.svc.Configs.Update(ctx, testGuild, func(cfg *entities.GuildConfig) error {
				cfg.WelcomeMessage += fmt.Sprintf("[%d]", i)
				return nil
			})
			require.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			_, err := h.svc.Configs.Update(ctx, testGuild, func(cfg *entities.GuildConfig) error {
				cfg.Warned = true
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	stored := h.stored(t)
	require.True(t, stored.Warned)
	for i := 0; i < 20; i++ {
		require.Contains(t, stored.WelcomeMessage, fmt.Sprintf("[%d]", i), "no update may be lost")
	}
}

func TestConfigService_UpdateSkipSave(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.provision(t, time.Hour)

	got, err := h.svc.Configs.Update(ctx, testGuild, func(cfg *entities.GuildConfig) error {
		cfg.Warned = true
		return errSkipSave
	})
	require.NoError(t, err)
	require.True(t, got.Warned)
	require.False(t, h.stored(t).Warned)
}
