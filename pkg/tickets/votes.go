package tickets

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Jacobbrewer1/migrator/pkg/cache"
	"github.com/Jacobbrewer1/migrator/pkg/entities"
	"github.com/Jacobbrewer1/migrator/pkg/logging"
	"github.com/Jacobbrewer1/migrator/pkg/messages"
)

const (
	// YesEmoji is the affirmative vote reaction.
	YesEmoji = "✅"

	// NoEmoji is the negative vote reaction.
	NoEmoji = "❌"
)

// VoteRef locates the vote message for a ticket.
type VoteRef struct {
	ChannelID string
	MessageID string
}

// VoteCoordinator owns the vote message for each ticket channel.
type VoteCoordinator struct {
	// l is the logger.
	l *slog.Logger

	// mu makes ensure and close atomic with respect to each other.
	mu sync.Mutex

	// gw is the chat gateway.
	gw Gateway

	// votes maps ticket channel IDs to their vote message.
	votes cache.Store[string, VoteRef]
}

// NewVoteCoordinator creates a new vote coordinator.
func NewVoteCoordinator(l *slog.Logger, gw Gateway, votes cache.Store[string, VoteRef]) *VoteCoordinator {
	return &VoteCoordinator{
		l:     l.With(slog.String(logging.KeyComponent, "votes")),
		gw:    gw,
		votes: votes,
	}
}

// EnsureVote posts the vote for a ticket unless one is already open. Failures are logged and swallowed so the
// caller can carry on without a vote.
func (v *VoteCoordinator) EnsureVote(ticketChannelID, ticketName string, cfg *entities.GuildConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.votes.Get(ticketChannelID); ok {
		return
	}

	l := v.l.With(
		slog.String(logging.KeyChannelID, ticketChannelID),
		slog.String(logging.KeyTicket, ticketName),
	)

	msgID, err := v.gw.SendMessage(cfg.VoteChannelID, fmt.Sprintf(messages.VoteOpen, strings.ToUpper(ticketName)))
	if err != nil {
		l.Warn("Error posting vote, continuing without one", slog.String(logging.KeyError, err.Error()))
		return
	}

	// The message exists from here on, so it is recorded even if a reaction fails.
	v.votes.Set(ticketChannelID, VoteRef{ChannelID: cfg.VoteChannelID, MessageID: msgID})

	for _, emoji := range []string{YesEmoji, NoEmoji} {
		if err := v.gw.AddReaction(cfg.VoteChannelID, msgID, emoji); err != nil {
			l.Warn("Error adding vote reaction",
				slog.String("emoji", emoji),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}

	l.Debug("Vote opened", slog.String("message_id", msgID))
}

// CloseVote closes the open vote for a ticket and returns the final tally. It returns false when there is no
// open vote. The tally is nil if the reactions could not be read.
func (v *VoteCoordinator) CloseVote(ticketChannelID, ticketName string) (*entities.Tally, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ref, ok := v.votes.Get(ticketChannelID)
	if !ok {
		return nil, false
	}
	v.votes.Delete(ticketChannelID)

	l := v.l.With(
		slog.String(logging.KeyChannelID, ticketChannelID),
		slog.String(logging.KeyTicket, ticketName),
	)

	name := strings.ToUpper(ticketName)
	counts, err := v.gw.ReactionCounts(ref.ChannelID, ref.MessageID)
	if err != nil {
		l.Warn("Error reading vote reactions", slog.String(logging.KeyError, err.Error()))
		if err := v.gw.EditMessage(ref.ChannelID, ref.MessageID, fmt.Sprintf(messages.VoteClosedNoTally, name)); err != nil {
			l.Warn("Error closing vote message", slog.String(logging.KeyError, err.Error()))
		}
		return nil, true
	}

	tally := &entities.Tally{
		Yes: withoutSeed(counts[YesEmoji]),
		No:  withoutSeed(counts[NoEmoji]),
	}

	if err := v.gw.EditMessage(ref.ChannelID, ref.MessageID, fmt.Sprintf(messages.VoteClosed, name, tally.Yes, tally.No)); err != nil {
		l.Warn("Error closing vote message", slog.String(logging.KeyError, err.Error()))
	}

	l.Debug("Vote closed", slog.Int("yes", tally.Yes), slog.Int("no", tally.No))
	return tally, true
}

// IsOpen reports whether a vote is open for the ticket channel.
func (v *VoteCoordinator) IsOpen(ticketChannelID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.votes.Get(ticketChannelID)
	return ok
}

// withoutSeed removes the bot's own reaction from a count.
func withoutSeed(count int) int {
	if count <= 0 {
		return 0
	}
	return count - 1
}
