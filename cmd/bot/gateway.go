package main

import (
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
)

// discordGateway is the chat gateway backed by a Discord session.
type discordGateway struct {
	s *discordgo.Session
}

func newDiscordGateway(s *discordgo.Session) *discordGateway {
	return &discordGateway{s: s}
}

func (g *discordGateway) SendMessage(channelID, content string) (string, error) {
	m, err := g.s.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", fmt.Errorf("error sending message: %w", err)
	}
	return m.ID, nil
}

func (g *discordGateway) AddReaction(channelID, messageID, emoji string) error {
	if err := g.s.MessageReactionAdd(channelID, messageID, emoji); err != nil {
		return fmt.Errorf("error adding reaction: %w", err)
	}
	return nil
}

func (g *discordGateway) EditMessage(channelID, messageID, content string) error {
	if _, err := g.s.ChannelMessageEdit(channelID, messageID, content); err != nil {
		return fmt.Errorf("error editing message: %w", err)
	}
	return nil
}

func (g *discordGateway) ReactionCounts(channelID, messageID string) (map[string]int, error) {
	// Read from the API; the state cache does not hold reaction counts.
	m, err := g.s.ChannelMessage(channelID, messageID)
	if err != nil {
		return nil, fmt.Errorf("error getting message: %w", err)
	}

	counts := make(map[string]int, len(m.Reactions))
	for _, r := range m.Reactions {
		if r == nil || r.Emoji == nil {
			continue
		}
		counts[r.Emoji.Name] = r.Count
	}
	return counts, nil
}

func (g *discordGateway) MoveChannel(channelID, categoryID string) error {
	if _, err := g.s.ChannelEditComplex(channelID, &discordgo.ChannelEdit{ParentID: categoryID}); err != nil {
		return fmt.Errorf("error moving channel: %w", err)
	}
	return nil
}

func (g *discordGateway) PostableTextChannels(guildID string) ([]string, error) {
	if g.s.State == nil || g.s.State.User == nil {
		return nil, errors.New("session state not ready")
	}

	channels, err := g.s.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild channels: %w", err)
	}

	ids := make([]string, 0, len(channels))
	for _, c := range channels {
		if c.Type != discordgo.ChannelTypeGuildText {
			continue
		}

		perms, err := g.s.State.UserChannelPermissions(g.s.State.User.ID, c.ID)
		if err != nil || perms&discordgo.PermissionSendMessages == 0 {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// channel returns a channel from the state cache, falling back to the API.
func channel(s *discordgo.Session, channelID string) (*discordgo.Channel, error) {
	if s.State != nil {
		if c, err := s.State.Channel(channelID); err == nil && c != nil {
			return c, nil
		}
	}

	c, err := s.Channel(channelID)
	if err != nil {
		return nil, fmt.Errorf("error getting channel: %w", err)
	}
	return c, nil
}
