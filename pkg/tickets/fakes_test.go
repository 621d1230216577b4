package tickets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/migrator/pkg/custom"
	"github.com/Jacobbrewer1/migrator/pkg/dataaccess"
	"github.com/Jacobbrewer1/migrator/pkg/entities"
	"github.com/Jacobbrewer1/migrator/pkg/ledger"
	"github.com/Jacobbrewer1/migrator/pkg/logging"
	"github.com/stretchr/testify/require"
)

const (
	testOwner   = "owner"
	testOfficer = "officer-role"
	testSheet   = "sheet-1"
	testGuild   = "guild-1"
	testVoteCh  = "vote-channel"
	testTicket  = "ticket-cat"
	testApprove = "approved-cat"
	testReject  = "rejected-cat"
)

func testLogger(t *testing.T) *slog.Logger {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`).WithWriter(io.Discard))
	require.NoError(t, err, "Failed to create logger")
	return l
}

func testConfig(expiresAt time.Time) *entities.GuildConfig {
	return &entities.GuildConfig{
		GuildID:            testGuild,
		VoteChannelID:      testVoteCh,
		WelcomeChannelID:   "welcome-channel",
		TicketCategoryID:   testTicket,
		ApprovedCategoryID: testApprove,
		RejectedCategoryID: testReject,
		ApproveRoleID:      testOfficer,
		SheetID:            testSheet,
		ExpiresAt:          custom.Datetime(expiresAt),
	}
}

// eventLog records calls across fakes in the order they happened.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (e *eventLog) add(format string, args ...any) {
	e.mu.Lock()
	e.events = append(e.events, fmt.Sprintf(format, args...))
	e.mu.Unlock()
}

func (e *eventLog) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.events...)
}

func (e *eventLog) index(event string) int {
	for i, ev := range e.all() {
		if ev == event {
			return i
		}
	}
	return -1
}

type sentMessage struct {
	channelID string
	content   string
}

type fakeGateway struct {
	mu     sync.Mutex
	events *eventLog

	nextID    int
	sent      []sentMessage
	reactions map[string]map[string]int
	edits     map[string][]string
	moves     []string
	channels  map[string][]string

	sendErr     map[string]error
	countErr    error
	moveErr     error
	channelsErr error
}

func newFakeGateway(events *eventLog) *fakeGateway {
	return &fakeGateway{
		events:    events,
		reactions: make(map[string]map[string]int),
		edits:     make(map[string][]string),
		channels:  make(map[string][]string),
		sendErr:   make(map[string]error),
	}
}

func (g *fakeGateway) SendMessage(channelID, content string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.sendErr[channelID]; err != nil {
		return "", err
	}
	g.nextID++
	g.sent = append(g.sent, sentMessage{channelID: channelID, content: content})
	g.events.add("send:%s:%s", channelID, content)
	return fmt.Sprintf("msg-%d", g.nextID), nil
}

func (g *fakeGateway) AddReaction(_, messageID, emoji string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.reactions[messageID] == nil {
		g.reactions[messageID] = make(map[string]int)
	}
	g.reactions[messageID][emoji]++
	g.events.add("react:%s:%s", messageID, emoji)
	return nil
}

func (g *fakeGateway) EditMessage(_, messageID, content string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.edits[messageID] = append(g.edits[messageID], content)
	g.events.add("edit:%s", messageID)
	return nil
}

func (g *fakeGateway) ReactionCounts(_, messageID string) (map[string]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.countErr != nil {
		return nil, g.countErr
	}
	out := make(map[string]int)
	for k, v := range g.reactions[messageID] {
		out[k] = v
	}
	return out, nil
}

func (g *fakeGateway) MoveChannel(channelID, categoryID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.moveErr != nil {
		return g.moveErr
	}
	g.moves = append(g.moves, channelID+"->"+categoryID)
	g.events.add("move:%s:%s", channelID, categoryID)
	return nil
}

func (g *fakeGateway) PostableTextChannels(guildID string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.channelsErr != nil {
		return nil, g.channelsErr
	}
	return g.channels[guildID], nil
}

// vote adds reactions from users to a message.
func (g *fakeGateway) vote(messageID, emoji string, n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.reactions[messageID] == nil {
		g.reactions[messageID] = make(map[string]int)
	}
	g.reactions[messageID][emoji] += n
}

func (g *fakeGateway) sentTo(channelID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []string
	for _, m := range g.sent {
		if m.channelID == channelID {
			out = append(out, m.content)
		}
	}
	return out
}

func (g *fakeGateway) moved() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.moves...)
}

func (g *fakeGateway) editsOf(messageID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.edits[messageID]...)
}

// recordingLedger is an in-memory ledger that records calls and can be made to fail.
type recordingLedger struct {
	*ledger.Memory

	mu      sync.Mutex
	events  *eventLog
	creates int
	writes  int

	findErr   error
	updateErr map[ledger.Column]error
}

func newRecordingLedger(events *eventLog) *recordingLedger {
	return &recordingLedger{
		Memory:    ledger.NewMemory(),
		events:    events,
		updateErr: make(map[ledger.Column]error),
	}
}

func (r *recordingLedger) FindRow(ctx context.Context, sheetID, ticketID string) (int, bool, error) {
	r.mu.Lock()
	err := r.findErr
	r.mu.Unlock()
	if err != nil {
		return 0, false, err
	}
	return r.Memory.FindRow(ctx, sheetID, ticketID)
}

func (r *recordingLedger) CreateRow(ctx context.Context, sheetID, ticketID, applicant string) error {
	r.mu.Lock()
	r.creates++
	r.mu.Unlock()
	r.events.add("create:%s:%s", ticketID, applicant)
	return r.Memory.CreateRow(ctx, sheetID, ticketID, applicant)
}

func (r *recordingLedger) UpdateCell(ctx context.Context, sheetID string, row int, column ledger.Column, value string) error {
	r.mu.Lock()
	err := r.updateErr[column]
	r.mu.Unlock()
	if err != nil {
		return err
	}

	if err := r.Memory.UpdateCell(ctx, sheetID, row, column, value); err != nil {
		return err
	}
	r.mu.Lock()
	r.writes++
	r.mu.Unlock()
	r.events.add("write:%s:%s", column, value)
	return nil
}

func (r *recordingLedger) failUpdate(column ledger.Column, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.updateErr, column)
		return
	}
	r.updateErr[column] = err
}

func (r *recordingLedger) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *recordingLedger) createCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates
}

// failingDal fails reads for selected guilds.
type failingDal struct {
	dataaccess.GuildConfigDal
	fail map[string]error
}

func (f *failingDal) GetGuildConfig(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	if err := f.fail[guildID]; err != nil {
		return nil, err
	}
	return f.GuildConfigDal.GetGuildConfig(ctx, guildID)
}

// harness wires the service against fakes.
type harness struct {
	events *eventLog
	gw     *fakeGateway
	ledger *recordingLedger
	dal    dataaccess.GuildConfigDal
	svc    *Service
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	events := new(eventLog)
	h := &harness{
		events: events,
		gw:     newFakeGateway(events),
		ledger: newRecordingLedger(events),
		dal:    dataaccess.NewMemoryGuildConfigDal(),
		now:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	h.svc = NewService(testLogger(t), h.dal, h.ledger, h.gw, testOwner, time.Hour)

	clock := func() time.Time { return h.now }
	h.svc.Configs.now = clock
	h.svc.Approvals.now = clock
	h.svc.Scheduler.now = clock
	return h
}

// provision stores an active config for the test guild expiring after d.
func (h *harness) provision(t *testing.T, d time.Duration) *entities.GuildConfig {
	cfg := testConfig(h.now.Add(d))
	require.NoError(t, h.dal.SaveGuildConfig(context.Background(), cfg))
	return cfg
}

func (h *harness) stored(t *testing.T) *entities.GuildConfig {
	cfg, err := h.dal.GetGuildConfig(context.Background(), testGuild)
	require.NoError(t, err)
	return cfg
}

func ticketChannel(name string) Channel {
	return Channel{GuildID: testGuild, ID: "chan-" + name, Name: name, ParentID: testTicket}
}

func officer(name string) Actor {
	return Actor{ID: "user-" + name, Name: name, Roles: []string{"member", testOfficer}}
}

func member(name string) Actor {
	return Actor{ID: "user-" + name, Name: name, Roles: []string{"member"}}
}
