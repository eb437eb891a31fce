package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Status is the orchestrator state.
type Status int

const (
	StatusIdle Status = iota
	StatusBusy
)

func (s Status) String() string {
	switch s {
	case StatusBusy:
		return "busy"
	default:
		return "idle"
	}
}

// Request is the effect of an accepted submit: the query to send and the
// conversation it belongs to, including the user turn just appended.
type Request struct {
	ID      uint64
	Query   string
	History []Turn
}

// Result carries the outcome of a Request back into the Session.
type Result struct {
	RequestID uint64
	Answer    Answer
	Err       error
}

type submitEvent struct {
	input string
	at    time.Time
}

type resultEvent struct {
	result Result
	at     time.Time
}

type state struct {
	status  Status
	store   Store
	pending uint64
	lastID  uint64
}

type effect struct {
	accepted bool
	request  *Request
	failure  error
}

// step is the transition function of the orchestrator. It works on a copy of
// st and reports what the caller has to do next.
func step(st state, ev any, failureTurns bool) (state, effect) {
	switch ev := ev.(type) {
	case submitEvent:
		if st.status != StatusIdle || strings.TrimSpace(ev.input) == "" {
			return st, effect{}
		}
		st.lastID++
		st.pending = st.lastID
		st.status = StatusBusy
		turns := st.store.Append(Turn{Sender: SenderUser, Content: ev.input, At: ev.at})
		return st, effect{
			accepted: true,
			request: &Request{
				ID:      st.pending,
				Query:   ev.input,
				History: backendHistory(turns),
			},
		}
	case resultEvent:
		if st.status != StatusBusy || ev.result.RequestID != st.pending {
			return st, effect{}
		}
		st.status = StatusIdle
		st.pending = 0
		if ev.result.Err != nil {
			if failureTurns {
				st.store.Append(Turn{
					Sender:  SenderAgent,
					Content: fmt.Sprintf("The request failed: %v", ev.result.Err),
					Failed:  true,
					At:      ev.at,
				})
			}
			return st, effect{accepted: true, failure: ev.result.Err}
		}
		citations := ev.result.Answer.Citations
		if ev.result.Answer.Text == NoDocumentsAnswer {
			citations = nil
		}
		st.store.Append(Turn{
			Sender:    SenderAgent,
			Content:   ev.result.Answer.Text,
			Citations: citations,
			At:        ev.at,
		})
		return st, effect{accepted: true}
	default:
		return st, effect{}
	}
}

// backendHistory drops synthetic failure turns; the backend never saw them.
func backendHistory(turns []Turn) []Turn {
	history := make([]Turn, 0, len(turns))
	for _, turn := range turns {
		if turn.Failed {
			continue
		}
		history = append(history, turn)
	}
	return history
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used to report backend failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFailureTurns controls whether a failed request appends a synthetic
// agent turn. Enabled by default.
func WithFailureTurns(enabled bool) Option {
	return func(s *Session) {
		s.failureTurns = enabled
	}
}

// WithClock overrides the timestamp source for appended turns.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session is the send orchestrator. It is not safe for concurrent use: all
// calls must come from one goroutine (the UI loop or the caller of Send).
type Session struct {
	st           state
	failureTurns bool
	logger       *zap.Logger
	now          func() time.Time
}

// NewSession returns an idle Session with an empty conversation.
func NewSession(opts ...Option) *Session {
	s := &Session{
		failureTurns: true,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit moves Idle to Busy when input is non-blank. It appends the user turn
// and returns the request to dispatch. When the session is busy or the input
// is blank nothing changes and ok is false.
func (s *Session) Submit(input string) (Request, bool) {
	next, eff := step(s.st, submitEvent{input: input, at: s.now()}, s.failureTurns)
	if !eff.accepted {
		return Request{}, false
	}
	s.st = next
	s.logger.Debug("query submitted",
		zap.Uint64("request_id", eff.request.ID),
		zap.Int("history_len", len(eff.request.History)),
	)
	return *eff.request, true
}

// Complete integrates the result of the outstanding request and returns the
// session to Idle. Results for any other request id are ignored.
func (s *Session) Complete(result Result) bool {
	next, eff := step(s.st, resultEvent{result: result, at: s.now()}, s.failureTurns)
	if !eff.accepted {
		s.logger.Debug("ignoring stale result", zap.Uint64("request_id", result.RequestID))
		return false
	}
	s.st = next
	if eff.failure != nil {
		s.logger.Warn("backend request failed",
			zap.Uint64("request_id", result.RequestID),
			zap.Error(eff.failure),
		)
	}
	return true
}

// Send runs one full cycle synchronously. It returns false when the submit was
// ignored. A backend failure is recorded in the conversation and also
// returned.
func (s *Session) Send(ctx context.Context, backend Backend, input string) (bool, error) {
	req, ok := s.Submit(input)
	if !ok {
		return false, nil
	}
	answer, err := backend.SubmitQuery(ctx, req.Query, req.History)
	s.Complete(Result{RequestID: req.ID, Answer: answer, Err: err})
	return true, err
}

// Status reports whether a request is outstanding.
func (s *Session) Status() Status {
	return s.st.status
}

// Busy is shorthand for Status() == StatusBusy.
func (s *Session) Busy() bool {
	return s.st.status == StatusBusy
}

// Turns returns the conversation in chronological order.
func (s *Session) Turns() []Turn {
	return s.st.store.Turns()
}

// Len reports the number of turns.
func (s *Session) Len() int {
	return s.st.store.Len()
}
