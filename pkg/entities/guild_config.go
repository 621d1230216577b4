package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jacobbrewer1/migrator/pkg/custom"
)

// UserPlaceholder is replaced with a mention of the new member in the welcome message.
const UserPlaceholder = "{user}"

// GuildConfig is the configuration and subscription state for a guild.
type GuildConfig struct {
	// GuildID is the ID of the guild.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// VoteChannelID is the ID of the channel that votes are posted in.
	VoteChannelID string `json:"vote_channel_id" bson:"vote_channel_id"`

	// WelcomeChannelID is the ID of the channel that welcome messages are sent to.
	WelcomeChannelID string `json:"welcome_channel_id" bson:"welcome_channel_id"`

	// TicketCategoryID is the ID of the category that new tickets are created in.
	TicketCategoryID string `json:"ticket_category_id" bson:"ticket_category_id"`

	// ApprovedCategoryID is the ID of the category that approved tickets are moved to.
	ApprovedCategoryID string `json:"approved_category_id" bson:"approved_category_id"`

	// RejectedCategoryID is the ID of the category that rejected tickets are moved to.
	RejectedCategoryID string `json:"rejected_category_id" bson:"rejected_category_id"`

	// ApproveRoleID is the ID of the role that can approve or reject tickets.
	ApproveRoleID string `json:"approve_role_id" bson:"approve_role_id"`

	// SheetID is the ID of the spreadsheet tickets are recorded in.
	SheetID string `json:"sheet_id" bson:"sheet_id"`

	// WelcomeMessage is the optional message sent when a member joins. It may contain UserPlaceholder.
	WelcomeMessage string `json:"welcome_message,omitempty" bson:"welcome_message,omitempty"`

	// ExpiresAt is when the subscription for the guild ends.
	ExpiresAt custom.Datetime `json:"expires_at" bson:"expires_at"`

	// Warned is whether the expiry warning has been sent for the current subscription period.
	Warned bool `json:"warned" bson:"warned"`

	// Disabled is whether the subscription has expired without being renewed.
	Disabled bool `json:"disabled" bson:"disabled"`
}

// Validate ensures every required field is set.
func (g *GuildConfig) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"guild_id", g.GuildID},
		{"vote_channel", g.VoteChannelID},
		{"welcome_channel", g.WelcomeChannelID},
		{"ticket_category", g.TicketCategoryID},
		{"approved_category", g.ApprovedCategoryID},
		{"rejected_category", g.RejectedCategoryID},
		{"approve_role", g.ApproveRoleID},
		{"sheet_id", g.SheetID},
	}

	var errs []error
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}
	if g.ExpiresAt.IsZero() {
		errs = append(errs, errors.New("expires_at is required"))
	}
	return errors.Join(errs...)
}

// Remaining returns the time left in the subscription. It is negative once expired.
func (g *GuildConfig) Remaining(now time.Time) time.Duration {
	return g.ExpiresAt.Time().Sub(now)
}

// Renew starts a new subscription period of the given length.
func (g *GuildConfig) Renew(now time.Time, period time.Duration) {
	g.ExpiresAt = custom.Datetime(now.Add(period).UTC())
	g.Warned = false
	g.Disabled = false
}

// IsTicketChannel reports whether a channel in the given category is an open ticket.
func (g *GuildConfig) IsTicketChannel(parentID string) bool {
	return parentID != "" && parentID == g.TicketCategoryID
}

// IsDecidableChannel reports whether a channel in the given category can be approved or rejected. Tickets
// already moved by a decision stay decidable so the decision can be re-issued.
func (g *GuildConfig) IsDecidableChannel(parentID string) bool {
	if parentID == "" {
		return false
	}
	return parentID == g.TicketCategoryID ||
		parentID == g.ApprovedCategoryID ||
		parentID == g.RejectedCategoryID
}

// HasApproveRole reports whether the role set contains the approve role.
func (g *GuildConfig) HasApproveRole(roles []string) bool {
	for _, r := range roles {
		if r == g.ApproveRoleID {
			return true
		}
	}
	return false
}

// WelcomeFor renders the welcome message for the given mention. It returns false when no message is set.
func (g *GuildConfig) WelcomeFor(mention string) (string, bool) {
	if strings.TrimSpace(g.WelcomeMessage) == "" {
		return "", false
	}
	return strings.ReplaceAll(g.WelcomeMessage, UserPlaceholder, mention), true
}
