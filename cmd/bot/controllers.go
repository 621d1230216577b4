package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/migrator/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/migrator/pkg/entities"
	"github.com/Jacobbrewer1/migrator/pkg/messages"
	"github.com/Jacobbrewer1/migrator/pkg/tickets"
)

// commandProcessors maps every registered command to its processor.
func commandProcessors() map[string]command {
	return map[string]command{
		cmdSetup:        {process: setupProcessor},
		cmdContinue:     {process: continueProcessor},
		cmdWelcomeSetup: {process: welcomeSetupProcessor},
		cmdFillDetails:  {process: fillDetailsProcessor, public: true},
		cmdApprove:      {process: decideProcessor(entities.OutcomeApproved)},
		cmdReject:       {process: decideProcessor(entities.OutcomeRejected)},
	}
}

// actor returns the guild member running the command.
func actor(i *discordgo.InteractionCreate) (tickets.Actor, error) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return tickets.Actor{}, tickets.ErrWrongContext
	}
	return tickets.Actor{
		ID:    i.Member.User.ID,
		Name:  i.Member.User.Username,
		Roles: i.Member.Roles,
	}, nil
}

// commandChannel returns the channel the command was run in.
func commandChannel(a IApp, i *discordgo.InteractionCreate) (tickets.Channel, error) {
	c, err := channel(a.Session(), i.ChannelID)
	if err != nil {
		return tickets.Channel{}, fmt.Errorf("%w: %w", tickets.ErrExternalUnavailable, err)
	}
	return tickets.Channel{
		GuildID:  i.GuildID,
		ID:       c.ID,
		Name:     c.Name,
		ParentID: c.ParentID,
	}, nil
}

func setupProcessor(ctx context.Context, a IApp, i *discordgo.InteractionCreate) (string, error) {
	act, err := actor(i)
	if err != nil {
		return "", err
	}

	cfg, err := setupConfig(i.GuildID, i.ApplicationCommandData())
	if err != nil {
		return "", err
	}

	if _, err := a.Tickets().Setup(ctx, act, cfg); errors.Is(err, tickets.ErrForbidden) {
		return messages.ErrUserOwnerOnly, err
	} else if err != nil {
		return "", fmt.Errorf("error setting up guild: %w", err)
	}
	return messages.SetupCompleted, nil
}

func continueProcessor(ctx context.Context, a IApp, i *discordgo.InteractionCreate) (string, error) {
	act, err := actor(i)
	if err != nil {
		return "", err
	}

	if _, err := a.Tickets().Renew(ctx, act, i.GuildID); errors.Is(err, tickets.ErrForbidden) {
		return messages.ErrUserOwnerOnly, err
	} else if err != nil {
		return "", fmt.Errorf("error renewing guild: %w", err)
	}
	return messages.ServiceExtended, nil
}

func welcomeSetupProcessor(ctx context.Context, a IApp, i *discordgo.InteractionCreate) (string, error) {
	act, err := actor(i)
	if err != nil {
		return "", err
	}

	msg := stringOption(options(i.ApplicationCommandData()), optMessage)
	if err := a.Tickets().SetWelcomeMessage(ctx, act, i.GuildID, msg); err != nil {
		return "", fmt.Errorf("error setting welcome message: %w", err)
	}
	return messages.WelcomeUpdated, nil
}

func fillDetailsProcessor(ctx context.Context, a IApp, i *discordgo.InteractionCreate) (string, error) {
	act, err := actor(i)
	if err != nil {
		return "", err
	}

	ch, err := commandChannel(a, i)
	if err != nil {
		return "", err
	}

	prompt, err := a.Tickets().FillDetails(ctx, act, ch)
	if err != nil {
		return "", fmt.Errorf("error starting interview: %w", err)
	}
	return prompt, nil
}

func decideProcessor(outcome entities.Outcome) commandProcessor {
	return func(ctx context.Context, a IApp, i *discordgo.InteractionCreate) (string, error) {
		act, err := actor(i)
		if err != nil {
			return "", err
		}

		ch, err := commandChannel(a, i)
		if err != nil {
			return "", err
		}

		reason := stringOption(options(i.ApplicationCommandData()), optReason)
		d, err := a.Tickets().Decide(ctx, act, ch, outcome, reason)
		if d != nil {
			monitoring.TicketDecisions.WithLabelValues(string(outcome), strconv.FormatBool(err == nil && d.Complete())).Inc()
		}
		return decisionResponse(d, err)
	}
}

// decisionResponse reports partial decisions explicitly.
func decisionResponse(d *tickets.Decision, err error) (string, error) {
	if err != nil {
		if d != nil && d.VoteClosed && !d.LedgerWritten {
			return messages.DecisionLedgerFailed, err
		}
		return "", fmt.Errorf("error deciding ticket: %w", err)
	}

	if !d.ChannelMoved {
		return fmt.Sprintf(messages.DecisionNotMoved, d.Outcome), nil
	}
	return messages.ActionCompleted, nil
}
