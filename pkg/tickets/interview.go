package tickets

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/migrator/pkg/cache"
	"github.com/Jacobbrewer1/migrator/pkg/entities"
	"github.com/Jacobbrewer1/migrator/pkg/ledger"
	"github.com/Jacobbrewer1/migrator/pkg/logging"
	"github.com/Jacobbrewer1/migrator/pkg/messages"
)

// InterviewTimeout is how long a session waits for the next answer before it is abandoned.
const InterviewTimeout = 10 * time.Minute

// Question is one interview step and the ledger column its answer is written to.
type Question struct {
	Column ledger.Column
	Prompt string
}

// Questions is the interview asked by fill-details.
var Questions = []Question{
	{Column: ledger.ColumnAnswer1, Prompt: "📝 **Please enter your in-game name**"},
	{Column: ledger.ColumnAnswer2, Prompt: "⚡ **What is your current power?**"},
	{Column: ledger.ColumnAnswer3, Prompt: "⚔️ **What are your total kill points?**"},
	{Column: ledger.ColumnAnswer4, Prompt: "👑 **What is your VIP level?**"},
}

// InterviewRequest starts an interview in a ticket channel.
type InterviewRequest struct {
	Config *entities.GuildConfig

	// ChannelID is the ticket channel.
	ChannelID string

	// TicketID is the ticket channel name.
	TicketID string

	// AnswererID is the only user whose messages are taken as answers.
	AnswererID string

	// ApplicantName is written to a newly created ledger row.
	ApplicantName string
}

type session struct {
	// mu orders the steps of the session.
	mu sync.Mutex

	channelID  string
	answererID string
	sheetID    string
	row        int
	step       int
	done       bool

	// gen identifies the armed timer so a stale timeout cannot end the session.
	gen   int
	timer *time.Timer
}

// Interviewer runs one interview session per ticket channel.
type Interviewer struct {
	// l is the logger.
	l *slog.Logger

	// reserve makes the one session per channel check atomic.
	reserve sync.Mutex

	gw        Gateway
	ledger    ledger.Client
	votes     *VoteCoordinator
	sessions  cache.Store[string, *session]
	questions []Question
	timeout   time.Duration
}

// NewInterviewer creates a new interviewer.
func NewInterviewer(l *slog.Logger, gw Gateway, led ledger.Client, votes *VoteCoordinator) *Interviewer {
	return &Interviewer{
		l:         l.With(slog.String(logging.KeyComponent, "interviewer")),
		gw:        gw,
		ledger:    led,
		votes:     votes,
		sessions:  cache.NewMemory[string, *session](),
		questions: Questions,
		timeout:   InterviewTimeout,
	}
}

// Start opens the vote, resolves the ledger row and returns the first prompt. ErrSessionActive is returned if
// an interview is already running in the channel.
func (iv *Interviewer) Start(ctx context.Context, req InterviewRequest) (string, error) {
	iv.reserve.Lock()
	if _, ok := iv.sessions.Get(req.ChannelID); ok {
		iv.reserve.Unlock()
		return "", ErrSessionActive
	}

	s := &session{
		channelID:  req.ChannelID,
		answererID: req.AnswererID,
		sheetID:    req.Config.SheetID,
	}

	// Answers that arrive before the row is resolved wait here.
	s.mu.Lock()
	defer s.mu.Unlock()
	iv.sessions.Set(req.ChannelID, s)
	iv.reserve.Unlock()

	iv.votes.EnsureVote(req.ChannelID, req.TicketID, req.Config)

	row, err := iv.resolveRow(ctx, req)
	if err != nil {
		s.done = true
		iv.release(s)
		return "", err
	}
	s.row = row
	iv.arm(s)

	iv.l.Info("Interview started",
		slog.String(logging.KeyChannelID, req.ChannelID),
		slog.String(logging.KeyTicket, req.TicketID),
		slog.String(logging.KeyUserID, req.AnswererID),
		slog.Int("row", row),
	)
	return iv.questions[0].Prompt, nil
}

// resolveRow finds the ledger row for the ticket, creating it if needed.
func (iv *Interviewer) resolveRow(ctx context.Context, req InterviewRequest) (int, error) {
	row, found, err := iv.ledger.FindRow(ctx, req.Config.SheetID, req.TicketID)
	if err != nil {
		return 0, unavailable("finding ledger row", err)
	} else if found {
		return row, nil
	}

	if err := iv.ledger.CreateRow(ctx, req.Config.SheetID, req.TicketID, req.ApplicantName); err != nil {
		return 0, unavailable("creating ledger row", err)
	}

	row, found, err = iv.ledger.FindRow(ctx, req.Config.SheetID, req.TicketID)
	if err != nil {
		return 0, unavailable("finding ledger row", err)
	} else if !found {
		return 0, unavailable("finding created ledger row", errors.New("row missing after create"))
	}
	return row, nil
}

// HandleMessage takes a channel message as the answer to the current step. It returns false when the message
// does not belong to an interview.
func (iv *Interviewer) HandleMessage(ctx context.Context, channelID, authorID, content string) bool {
	s, ok := iv.sessions.Get(channelID)
	if !ok || s.answererID != authorID {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return false
	}

	l := iv.l.With(
		slog.String(logging.KeyChannelID, channelID),
		slog.Int("step", s.step),
	)

	q := iv.questions[s.step]
	if err := iv.ledger.UpdateCell(ctx, s.sheetID, s.row, q.Column, content); err != nil {
		l.Error("Error writing answer", slog.String(logging.KeyError, err.Error()))
		iv.notify(channelID, messages.InterviewRetry)
		iv.arm(s)
		return true
	}

	s.step++
	if s.step < len(iv.questions) {
		iv.arm(s)
		iv.notify(channelID, iv.questions[s.step].Prompt)
		return true
	}

	s.done = true
	s.timer.Stop()
	iv.release(s)
	iv.notify(channelID, messages.InterviewCompleted)
	l.Info("Interview completed")
	return true
}

// Step returns the current step of the interview in the channel.
func (iv *Interviewer) Step(channelID string) (int, bool) {
	s, ok := iv.sessions.Get(channelID)
	if !ok {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step, !s.done
}

// arm restarts the idle timer. The session lock must be held.
func (iv *Interviewer) arm(s *session) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(iv.timeout, func() {
		iv.expire(s, gen)
	})
}

func (iv *Interviewer) expire(s *session, gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done || s.gen != gen {
		return
	}
	s.done = true
	iv.release(s)

	iv.l.Info("Interview timed out",
		slog.String(logging.KeyChannelID, s.channelID),
		slog.Int("step", s.step),
	)
}

// release removes the session from the store unless it has already been replaced.
func (iv *Interviewer) release(s *session) {
	iv.reserve.Lock()
	defer iv.reserve.Unlock()
	if cur, ok := iv.sessions.Get(s.channelID); ok && cur == s {
		iv.sessions.Delete(s.channelID)
	}
}

func (iv *Interviewer) notify(channelID, content string) {
	if _, err := iv.gw.SendMessage(channelID, content); err != nil {
		iv.l.Warn("Error sending interview message",
			slog.String(logging.KeyChannelID, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}
}
