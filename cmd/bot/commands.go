package main

import (
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/migrator/pkg/entities"
	"github.com/Jacobbrewer1/migrator/pkg/tickets"
)

const (
	cmdSetup        = "setup"
	cmdContinue     = "continue"
	cmdWelcomeSetup = "welcome-setup"
	cmdFillDetails  = "fill-details"
	cmdApprove      = "approve"
	cmdReject       = "reject"

	optVoteChannel      = "vote_channel"
	optWelcomeChannel   = "welcome_channel"
	optTicketCategory   = "ticket_category"
	optApprovedCategory = "approved_category"
	optRejectedCategory = "rejected_category"
	optApproveRole      = "approve_role"
	optSheetID          = "sheet_id"
	optMessage          = "message"
	optReason           = "reason"
)

var (
	adminPermission int64 = discordgo.PermissionAdministrator
	guildOnly             = false

	textChannelTypes = []discordgo.ChannelType{discordgo.ChannelTypeGuildText}
	categoryTypes    = []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory}
)

// slashCommands is every command the bot registers.
var slashCommands = []*discordgo.ApplicationCommand{
	{
		Name:                     cmdSetup,
		Description:              "Set up the migration manager for this server",
		DefaultMemberPermissions: &adminPermission,
		DMPermission:             &guildOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionChannel, Name: optVoteChannel, Description: "Channel votes are posted in", Required: true, ChannelTypes: textChannelTypes},
			{Type: discordgo.ApplicationCommandOptionChannel, Name: optWelcomeChannel, Description: "Channel new members are welcomed in", Required: true, ChannelTypes: textChannelTypes},
			{Type: discordgo.ApplicationCommandOptionChannel, Name: optTicketCategory, Description: "Category new tickets are opened in", Required: true, ChannelTypes: categoryTypes},
			{Type: discordgo.ApplicationCommandOptionChannel, Name: optApprovedCategory, Description: "Category approved tickets are moved to", Required: true, ChannelTypes: categoryTypes},
			{Type: discordgo.ApplicationCommandOptionChannel, Name: optRejectedCategory, Description: "Category rejected tickets are moved to", Required: true, ChannelTypes: categoryTypes},
			{Type: discordgo.ApplicationCommandOptionRole, Name: optApproveRole, Description: "Role allowed to approve and reject tickets", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: optSheetID, Description: "Google spreadsheet ID", Required: true},
		},
	},
	{
		Name:                     cmdContinue,
		Description:              "Extend the subscription for this server by 30 days",
		DefaultMemberPermissions: &adminPermission,
		DMPermission:             &guildOnly,
	},
	{
		Name:         cmdWelcomeSetup,
		Description:  "Set the welcome message, use {user} to mention the new member",
		DMPermission: &guildOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: optMessage, Description: "Welcome message", Required: true},
		},
	},
	{
		Name:         cmdFillDetails,
		Description:  "Fill in the details for this ticket",
		DMPermission: &guildOnly,
	},
	{
		Name:         cmdApprove,
		Description:  "Approve this ticket",
		DMPermission: &guildOnly,
	},
	{
		Name:         cmdReject,
		Description:  "Reject this ticket",
		DMPermission: &guildOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: optReason, Description: "Reason for the rejection", Required: false},
		},
	},
}

// options indexes the top level options of a command by name.
func options(data discordgo.ApplicationCommandInteractionData) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, o := range data.Options {
		opts[o.Name] = o
	}
	return opts
}

// stringOption returns the value of a string option, or "" if it was not given.
func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	o, ok := opts[name]
	if !ok || o.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return o.StringValue()
}

// setupConfig builds a guild configuration from the setup command options.
func setupConfig(guildID string, data discordgo.ApplicationCommandInteractionData) (entities.GuildConfig, error) {
	opts := options(data)

	var errs []error
	channelID := func(name string, want discordgo.ChannelType) string {
		o, ok := opts[name]
		if !ok || o.Type != discordgo.ApplicationCommandOptionChannel {
			errs = append(errs, fmt.Errorf("%s is required", name))
			return ""
		}

		id := fmt.Sprint(o.Value)
		if data.Resolved != nil {
			if c, ok := data.Resolved.Channels[id]; ok && c.Type != want {
				errs = append(errs, fmt.Errorf("%s has the wrong channel type", name))
			}
		}
		return id
	}

	cfg := entities.GuildConfig{
		GuildID:            guildID,
		VoteChannelID:      channelID(optVoteChannel, discordgo.ChannelTypeGuildText),
		WelcomeChannelID:   channelID(optWelcomeChannel, discordgo.ChannelTypeGuildText),
		TicketCategoryID:   channelID(optTicketCategory, discordgo.ChannelTypeGuildCategory),
		ApprovedCategoryID: channelID(optApprovedCategory, discordgo.ChannelTypeGuildCategory),
		RejectedCategoryID: channelID(optRejectedCategory, discordgo.ChannelTypeGuildCategory),
		SheetID:            stringOption(opts, optSheetID),
	}

	if o, ok := opts[optApproveRole]; ok && o.Type == discordgo.ApplicationCommandOptionRole {
		cfg.ApproveRoleID = fmt.Sprint(o.Value)
	}

	if err := errors.Join(errs...); err != nil {
		return cfg, fmt.Errorf("%w: %w", tickets.ErrInvalidConfig, err)
	}
	return cfg, nil
}
