package fsm

import (
	"errors"
	"log/slog"

	"github.com/great-houk/FSM-Simulator/internal/logging"
)

// Status is the outcome of a session operation. None of the failure
// statuses change the session.
type Status int

const (
	StatusOK Status = iota
	StatusNoPendingInput
	StatusNoTransition
	StatusHistoryUnderflow
	StatusNoModel
)

// Sentinel errors matching the failure statuses, for callers that prefer
// errors.Is over switching on Status.
var (
	ErrNoPendingInput   = errors.New("no input selected")
	ErrNoTransition     = errors.New("no transition")
	ErrHistoryUnderflow = errors.New("already at the start of history")
	ErrNoModel          = errors.New("no automaton loaded")
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoPendingInput:
		return "no pending input"
	case StatusNoTransition:
		return "no transition"
	case StatusHistoryUnderflow:
		return "history underflow"
	case StatusNoModel:
		return "no model"
	}
	return "unknown"
}

// Err returns the sentinel error for s, or nil for StatusOK.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusNoPendingInput:
		return ErrNoPendingInput
	case StatusNoTransition:
		return ErrNoTransition
	case StatusHistoryUnderflow:
		return ErrHistoryUnderflow
	case StatusNoModel:
		return ErrNoModel
	}
	return errors.New("unknown status")
}

// StepResult records one attempted step. From, To, Input and Outputs are
// only meaningful when Status is StatusOK, except Input which echoes the
// pending input whenever one was set.
type StepResult struct {
	Status     Status
	From       string
	To         string
	Input      string
	Outputs    []string
	Transition Transition
}

// OK reports whether the step moved the session.
func (r StepResult) OK() bool {
	return r.Status == StatusOK
}

// Session steps a Model, keeping a visited-state history with a cursor.
// Stepping while the cursor is behind the end of history discards the
// recorded forward branch. A Session is owned by one caller and is not safe
// for concurrent use.
type Session struct {
	model   *Model
	history []string
	cursor  int
	pending string
	hasPend bool
	logger  *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for step tracing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates a session positioned at the initial state of m.
func NewSession(m *Model, opts ...Option) *Session {
	s := &Session{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset(m)
	return s
}

// Reset loads m and returns to its initial state, clearing history and the
// pending input. A nil model leaves the session disposed.
func (s *Session) Reset(m *Model) {
	if m == nil {
		s.Dispose()
		return
	}
	s.model = m
	s.history = []string{m.Initial()}
	s.cursor = 0
	s.pending = ""
	s.hasPend = false
	s.logger.Debug("session reset", "initial", m.Initial())
}

// Dispose releases the model and history. Later operations report
// StatusNoModel until Reset is called with a model.
func (s *Session) Dispose() {
	s.model = nil
	s.history = nil
	s.cursor = 0
	s.pending = ""
	s.hasPend = false
}

// Model returns the loaded model, or nil after Dispose.
func (s *Session) Model() *Model {
	return s.model
}

// ActiveState returns the state under the history cursor.
func (s *Session) ActiveState() string {
	if s.model == nil {
		return ""
	}
	return s.history[s.cursor]
}

// PendingInput returns the selected input, if any.
func (s *Session) PendingInput() (string, bool) {
	return s.pending, s.hasPend
}

// History returns a copy of the visited states.
func (s *Session) History() []string {
	return append([]string(nil), s.history...)
}

// Cursor returns the index of the active state in History.
func (s *Session) Cursor() int {
	return s.cursor
}

// CanBack reports whether Back would move the cursor.
func (s *Session) CanBack() bool {
	return s.model != nil && s.cursor > 0
}

// SelectInput makes name the pending input. Selecting the pending input of
// an exclusive group again clears it. Only one input is ever pending, so a
// selection replaces whatever was pending before. Names that are neither
// declared nor used by a transition are ignored and reported with
// ok == false.
func (s *Session) SelectInput(name string) (pending string, ok bool) {
	if s.model == nil {
		return "", false
	}
	in, known := s.model.SelectableInput(name)
	if !known {
		return s.pending, false
	}
	if _, grouped := in.ExclusiveGroup(); grouped && s.hasPend && s.pending == name {
		s.ClearInput()
		return "", true
	}
	s.pending = name
	s.hasPend = true
	return name, true
}

// ClearInput drops the pending input.
func (s *Session) ClearInput() {
	s.pending = ""
	s.hasPend = false
}

// Step fires the pending input from the active state.
func (s *Session) Step() StepResult {
	if s.model == nil {
		return StepResult{Status: StatusNoModel}
	}
	if !s.hasPend {
		return StepResult{Status: StatusNoPendingInput}
	}

	from := s.ActiveState()
	t, ok := s.model.Lookup(from, s.pending)
	if !ok {
		s.logger.Debug("no transition", "state", from, "input", s.pending)
		return StepResult{Status: StatusNoTransition, From: from, Input: s.pending}
	}

	// Taking a step from inside history overwrites the old future.
	s.history = append(s.history[:s.cursor+1], t.To)
	s.cursor++

	s.logger.Debug("step", "from", t.From, "input", t.Input, "to", t.To, "outputs", t.Outputs)

	return StepResult{
		Status:     StatusOK,
		From:       from,
		To:         t.To,
		Input:      t.Input,
		Outputs:    append([]string(nil), t.Outputs...),
		Transition: t,
	}
}

// Back moves the cursor one entry toward the start of history.
func (s *Session) Back() Status {
	if s.model == nil {
		return StatusNoModel
	}
	if s.cursor == 0 {
		return StatusHistoryUnderflow
	}
	s.cursor--
	s.logger.Debug("back", "state", s.history[s.cursor], "cursor", s.cursor)
	return StatusOK
}

// EnabledInputs returns the selectable inputs that have a transition from
// the active state, in SelectableInputs order.
func (s *Session) EnabledInputs() []string {
	if s.model == nil {
		return nil
	}
	var inputs []string
	state := s.ActiveState()
	for _, in := range s.model.SelectableInputs() {
		if _, ok := s.model.Lookup(state, in.Name); ok {
			inputs = append(inputs, in.Name)
		}
	}
	return inputs
}
