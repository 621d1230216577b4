package tickets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/migrator/pkg/entities"
	"github.com/Jacobbrewer1/migrator/pkg/ledger"
	"github.com/Jacobbrewer1/migrator/pkg/logging"
	"github.com/Jacobbrewer1/migrator/pkg/messages"
)

// DecisionRequest is an officer approving or rejecting a ticket.
type DecisionRequest struct {
	Config *entities.GuildConfig

	ChannelID string
	TicketID  string
	Outcome   entities.Outcome

	ActorID    string
	ActorName  string
	ActorRoles []string

	// Reason is optional and only posted in the ticket channel.
	Reason string
}

// Decision reports how far a decision got.
type Decision struct {
	Outcome entities.Outcome

	// VoteClosed is set when an open vote was closed by this decision.
	VoteClosed bool

	// Tally is the final vote count. It is nil when no vote was closed or the count could not be read.
	Tally *entities.Tally

	// LedgerWritten is set once the status, officer and time have been written.
	LedgerWritten bool

	// ChannelMoved is set once the ticket channel is in the outcome category.
	ChannelMoved bool

	DecidedAt time.Time
}

// Complete reports whether every step of the decision succeeded.
func (d *Decision) Complete() bool {
	return d.LedgerWritten && d.ChannelMoved
}

// ApprovalWorkflow records ticket decisions.
type ApprovalWorkflow struct {
	// l is the logger.
	l *slog.Logger

	gw     Gateway
	ledger ledger.Client
	votes  *VoteCoordinator

	// now returns the current time.
	now func() time.Time
}

// NewApprovalWorkflow creates a new approval workflow.
func NewApprovalWorkflow(l *slog.Logger, gw Gateway, led ledger.Client, votes *VoteCoordinator) *ApprovalWorkflow {
	return &ApprovalWorkflow{
		l:      l.With(slog.String(logging.KeyComponent, "approvals")),
		gw:     gw,
		ledger: led,
		votes:  votes,
		now:    time.Now,
	}
}

// Decide closes the vote, writes the decision to the ledger and moves the ticket channel. The ledger is the
// record of truth: if writing it fails the channel is not moved and the error is returned alongside the partial
// decision. A failed move is not an error; it is reported through Decision.ChannelMoved.
func (a *ApprovalWorkflow) Decide(ctx context.Context, req DecisionRequest) (*Decision, error) {
	if !req.Outcome.IsDecision() {
		return nil, fmt.Errorf("invalid outcome %q", req.Outcome)
	}
	if !req.Config.HasApproveRole(req.ActorRoles) {
		return nil, ErrForbidden
	}

	row, found, err := a.ledger.FindRow(ctx, req.Config.SheetID, req.TicketID)
	if err != nil {
		return nil, unavailable("finding ledger row", err)
	} else if !found {
		return nil, ErrTicketNotFound
	}

	l := a.l.With(
		slog.String(logging.KeyChannelID, req.ChannelID),
		slog.String(logging.KeyTicket, req.TicketID),
		slog.String(logging.KeyUserID, req.ActorID),
		slog.String("outcome", string(req.Outcome)),
	)

	d := &Decision{
		Outcome:   req.Outcome,
		DecidedAt: a.now().UTC(),
	}
	d.Tally, d.VoteClosed = a.votes.CloseVote(req.ChannelID, req.TicketID)

	cells := []struct {
		column ledger.Column
		value  string
	}{
		{ledger.ColumnStatus, string(req.Outcome)},
		{ledger.ColumnDecidedBy, req.ActorName},
		{ledger.ColumnDecidedAt, d.DecidedAt.Format(time.RFC3339)},
	}
	for _, c := range cells {
		if err := a.ledger.UpdateCell(ctx, req.Config.SheetID, row, c.column, c.value); err != nil {
			l.Error("Error writing decision to ledger",
				slog.String("column", string(c.column)),
				slog.String(logging.KeyError, err.Error()),
			)
			return d, unavailable("writing decision", err)
		}
	}
	d.LedgerWritten = true

	target := req.Config.ApprovedCategoryID
	if req.Outcome == entities.OutcomeRejected {
		target = req.Config.RejectedCategoryID
	}
	if err := a.gw.MoveChannel(req.ChannelID, target); err != nil {
		l.Error("Error moving ticket channel", slog.String(logging.KeyError, err.Error()))
	} else {
		d.ChannelMoved = true
	}

	if _, err := a.gw.SendMessage(req.ChannelID, outcomeNotice(req)); err != nil {
		l.Warn("Error posting outcome notice", slog.String(logging.KeyError, err.Error()))
	}

	l.Info("Ticket decided",
		slog.Bool("vote_closed", d.VoteClosed),
		slog.Bool("channel_moved", d.ChannelMoved),
	)
	return d, nil
}

func outcomeNotice(req DecisionRequest) string {
	switch {
	case req.Outcome == entities.OutcomeApproved:
		return fmt.Sprintf(messages.TicketApproved, req.ActorName)
	case req.Reason != "":
		return fmt.Sprintf(messages.TicketRejectedReason, req.ActorName, req.Reason)
	default:
		return fmt.Sprintf(messages.TicketRejected, req.ActorName)
	}
}
