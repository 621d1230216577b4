package main

import (
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/migrator/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/migrator/pkg/logging"
)

func guildJoinedHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		a.Log().Info("Joined guild",
			slog.String(logging.KeyGuildID, g.ID),
			slog.String("name", g.Name),
		)

		// Increment the total number of guilds.
		monitoring.TotalDiscordGuilds.Inc()
	}
}

func guildLeaveHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		a.Log().Info("Left guild", slog.String(logging.KeyGuildID, g.ID))

		// Decrement the total number of guilds.
		monitoring.TotalDiscordGuilds.Dec()
	}
}

func memberJoinedHandler(a IApp) func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	return func(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
		if m.Member == nil || m.User == nil || m.User.Bot {
			return
		}

		ctx, cancel := eventContext()
		defer cancel()

		if a.Tickets().MemberJoined(ctx, m.GuildID, m.User.ID) {
			a.Log().Debug("Welcomed member",
				slog.String(logging.KeyGuildID, m.GuildID),
				slog.String(logging.KeyUserID, m.User.ID),
			)
		}
	}
}

func messageCreateHandler(a IApp) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot || m.GuildID == "" {
			return
		}

		ctx, cancel := eventContext()
		defer cancel()

		if a.Tickets().HandleMessage(ctx, m.ChannelID, m.Author.ID, m.Content) {
			monitoring.InterviewAnswers.Inc()
		}
	}
}
