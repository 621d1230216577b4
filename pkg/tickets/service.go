package tickets

import (
	"context"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/migrator/pkg/cache"
	"github.com/Jacobbrewer1/migrator/pkg/dataaccess"
	"github.com/Jacobbrewer1/migrator/pkg/entities"
	"github.com/Jacobbrewer1/migrator/pkg/ledger"
)

// Channel is the channel a command was used in.
type Channel struct {
	GuildID string
	ID      string

	// Name is the channel name, which is the ticket ID for ticket channels.
	Name string

	// ParentID is the category the channel is in.
	ParentID string
}

// Actor is the user running a command.
type Actor struct {
	ID    string
	Name  string
	Roles []string
}

// Service is the ticket workflow for every guild. Each command checks that the guild is configured and active
// before doing anything else.
type Service struct {
	Configs    *ConfigService
	Votes      *VoteCoordinator
	Interviews *Interviewer
	Approvals  *ApprovalWorkflow
	Scheduler  *SubscriptionScheduler
	Welcomer   *Welcomer
}

// NewService wires the ticket workflow together.
func NewService(l *slog.Logger, dal dataaccess.GuildConfigDal, led ledger.Client, gw Gateway, ownerID string, sweepInterval time.Duration) *Service {
	configs := NewConfigService(l, dal, ownerID)
	votes := NewVoteCoordinator(l, gw, cache.NewMemory[string, VoteRef]())
	return &Service{
		Configs:    configs,
		Votes:      votes,
		Interviews: NewInterviewer(l, gw, led, votes),
		Approvals:  NewApprovalWorkflow(l, gw, led, votes),
		Scheduler:  NewSubscriptionScheduler(l, configs, gw, sweepInterval),
		Welcomer:   NewWelcomer(l, configs, gw),
	}
}

// Setup provisions a guild. Only the bot owner may do this.
func (s *Service) Setup(ctx context.Context, actor Actor, cfg entities.GuildConfig) (*entities.GuildConfig, error) {
	return s.Configs.Setup(ctx, actor.ID, cfg)
}

// Renew extends the subscription of a guild. Only the bot owner may do this.
func (s *Service) Renew(ctx context.Context, actor Actor, guildID string) (*entities.GuildConfig, error) {
	return s.Configs.Renew(ctx, actor.ID, guildID)
}

// SetWelcomeMessage sets the message sent to new members.
func (s *Service) SetWelcomeMessage(ctx context.Context, actor Actor, guildID, message string) error {
	return s.Configs.SetWelcomeMessage(ctx, guildID, actor.Roles, message)
}

// FillDetails starts the interview in a ticket channel and returns the first prompt.
func (s *Service) FillDetails(ctx context.Context, actor Actor, ch Channel) (string, error) {
	cfg, err := s.Configs.Active(ctx, ch.GuildID)
	if err != nil {
		return "", err
	}
	if !cfg.IsTicketChannel(ch.ParentID) {
		return "", ErrWrongContext
	}

	return s.Interviews.Start(ctx, InterviewRequest{
		Config:        cfg,
		ChannelID:     ch.ID,
		TicketID:      ch.Name,
		AnswererID:    actor.ID,
		ApplicantName: actor.Name,
	})
}

// Decide approves or rejects the ticket in the channel.
func (s *Service) Decide(ctx context.Context, actor Actor, ch Channel, outcome entities.Outcome, reason string) (*Decision, error) {
	cfg, err := s.Configs.Active(ctx, ch.GuildID)
	if err != nil {
		return nil, err
	}
	if !cfg.IsDecidableChannel(ch.ParentID) {
		return nil, ErrWrongContext
	}

	return s.Approvals.Decide(ctx, DecisionRequest{
		Config:     cfg,
		ChannelID:  ch.ID,
		TicketID:   ch.Name,
		Outcome:    outcome,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		ActorRoles: actor.Roles,
		Reason:     reason,
	})
}

// HandleMessage routes a channel message to the interview running in the channel, if any.
func (s *Service) HandleMessage(ctx context.Context, channelID, authorID, content string) bool {
	return s.Interviews.HandleMessage(ctx, channelID, authorID, content)
}

// MemberJoined welcomes a new guild member.
func (s *Service) MemberJoined(ctx context.Context, guildID, userID string) bool {
	return s.Welcomer.MemberJoined(ctx, guildID, userID)
}
