package tickets

import (
	"context"
	"testing"
	"time"

	"github.com/Jacobbrewer1/migrator/pkg/entities"
	"github.com/stretchr/testify/require"
)

func TestService_CommandContext(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.svc.FillDetails(ctx, member("alice"), ticketChannel("ticket-42"))
	require.ErrorIs(t, err, ErrNotConfigured)
	_, err = h.svc.Decide(ctx, officer("olga"), ticketChannel("ticket-42"), entities.OutcomeApproved, "")
	require.ErrorIs(t, err, ErrNotConfigured)

	h.provision(t, 10*24*time.Hour)

	tests := []struct {
		name      string
		parentID  string
		fillErr   error
		decideErr error
	}{
		{name: "no category", parentID: "", fillErr: ErrWrongContext, decideErr: ErrWrongContext},
		{name: "other category", parentID: "general-cat", fillErr: ErrWrongContext, decideErr: ErrWrongContext},
		{name: "approved category", parentID: testApprove, fillErr: ErrWrongContext, decideErr: ErrTicketNotFound},
		{name: "rejected category", parentID: testReject, fillErr: ErrWrongContext, decideErr: ErrTicketNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := Channel{GuildID: testGuild, ID: "chan-x", Name: "ticket-x", ParentID: tt.parentID}

			_, err := h.svc.FillDetails(ctx, member("alice"), ch)
			require.ErrorIs(t, err, tt.fillErr)

			_, err = h.svc.Decide(ctx, officer("olga"), ch, entities.OutcomeApproved, "")
			require.ErrorIs(t, err, tt.decideErr)
		})
	}

	require.Zero(t, h.ledger.createCount())
	require.Empty(t, h.gw.sentTo(testVoteCh))
}
