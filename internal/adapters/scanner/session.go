// Package scanner drives a check-in station: it feeds scanned codes to the
// gate one at a time and holds each outcome on screen until the station is
// ready for the next guest.
package scanner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/input"
	"invitapp/internal/ports/output"
)

// DefaultResumeDelay is how long a welcome stays on screen.
const DefaultResumeDelay = 3 * time.Second

type State int

const (
	Idle State = iota
	Scanning
	Deciding
	Result
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Deciding:
		return "deciding"
	case Result:
		return "result"
	}
	return "unknown"
}

// Outcome is what the station shows for a decided scan. It mirrors the gate
// verdicts plus Failed for store errors, which may be retried.
type Outcome string

const (
	OutcomeAdmitted         Outcome = "admitted"
	OutcomeAlreadyCheckedIn Outcome = "already_checked_in"
	OutcomeUnknownGuest     Outcome = "unknown_guest"
	OutcomeInvalidCode      Outcome = "invalid_code"
	OutcomeWrongEvent       Outcome = "wrong_event"
	OutcomeFailed           Outcome = "failed"
)

// View is a snapshot of what the station displays.
type View struct {
	State     State
	Outcome   Outcome // set in Result
	Message   string
	GuestName string
	// AwaitingDismiss is true for results that stay until Dismiss.
	AwaitingDismiss bool
}

// Listener receives every view change in order. It runs on the goroutine
// that caused the change and must not call back into the Session.
type Listener func(View)

type afterFunc func(d time.Duration, f func()) (stop func() bool)

func timeAfter(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Session is one scanning station bound to an event. At most one gate call
// is in flight; codes read while deciding or showing a result are dropped.
type Session struct {
	gate        input.CheckInUseCase
	eventID     string
	t           output.T
	locale      string
	log         zerolog.Logger
	resumeDelay time.Duration
	after       afterFunc
	listener    Listener

	mu        sync.Mutex
	notifyMu  sync.Mutex
	state     State
	view      View
	gen       uint64
	stopTimer func() bool
	disposed  atomic.Bool
	inflight  sync.WaitGroup
}

type Option func(*Session)

func WithResumeDelay(d time.Duration) Option {
	return func(s *Session) { s.resumeDelay = d }
}

func WithLocale(locale string) Option {
	return func(s *Session) { s.locale = locale }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

func WithListener(fn Listener) Option {
	return func(s *Session) { s.listener = fn }
}

func NewSession(gate input.CheckInUseCase, eventID string, t output.T, opts ...Option) *Session {
	s := &Session{
		gate:        gate,
		eventID:     eventID,
		t:           t,
		log:         zerolog.Nop(),
		resumeDelay: DefaultResumeDelay,
		after:       timeAfter,
		listener:    func(View) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.view = View{State: Idle}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Start turns the camera on. It reports false unless the station was idle.
func (s *Session) Start() bool {
	s.mu.Lock()
	if s.disposed.Load() || s.state != Idle {
		s.mu.Unlock()
		return false
	}
	s.setScanningLocked()
	s.publishLocked()
	return true
}

// HandleScan submits a decoded code. It returns false when the station is
// not scanning and the code was ignored. The gate runs on its own goroutine
// under ctx; its result arrives through the listener.
func (s *Session) HandleScan(ctx context.Context, text string) bool {
	s.mu.Lock()
	if s.disposed.Load() || s.state != Scanning {
		s.mu.Unlock()
		return false
	}
	s.gen++
	gen := s.gen
	s.state = Deciding
	s.view = View{State: Deciding, Message: s.t.T(s.locale, "scan.verifying", nil)}
	s.inflight.Add(1)
	s.publishLocked()

	go func() {
		defer s.inflight.Done()
		res, err := s.gate.CheckIn(ctx, text, s.eventID)
		s.decide(gen, res, err)
	}()
	return true
}

func (s *Session) decide(gen uint64, res entities.CheckIn, err error) {
	s.mu.Lock()
	if s.disposed.Load() || gen != s.gen || s.state != Deciding {
		s.mu.Unlock()
		return
	}
	outcome := Outcome(res.Verdict)
	if err != nil {
		outcome = OutcomeFailed
		s.log.Error().Err(err).Str("event_id", s.eventID).Bool("retryable", domain.IsRetryable(err)).Msg("check-in failed")
	} else {
		s.log.Info().Str("event_id", s.eventID).Str("guest_id", res.GuestID).Str("verdict", string(res.Verdict)).Msg("scan decided")
	}

	s.state = Result
	s.view = View{
		State:           Result,
		Outcome:         outcome,
		Message:         s.t.T(s.locale, "scan."+string(outcome), map[string]any{"Name": res.GuestName}),
		GuestName:       res.GuestName,
		AwaitingDismiss: outcome != OutcomeAdmitted,
	}
	if outcome == OutcomeAdmitted {
		s.stopTimer = s.after(s.resumeDelay, func() { s.resume(gen) })
	}
	s.publishLocked()
}

func (s *Session) resume(gen uint64) {
	s.mu.Lock()
	if s.disposed.Load() || gen != s.gen || s.state != Result {
		s.mu.Unlock()
		return
	}
	s.setScanningLocked()
	s.publishLocked()
}

// Dismiss returns from a result screen to scanning. Rejections wait for
// it; a welcome may be dismissed early.
func (s *Session) Dismiss() bool {
	s.mu.Lock()
	if s.disposed.Load() || s.state != Result {
		s.mu.Unlock()
		return false
	}
	s.setScanningLocked()
	s.publishLocked()
	return true
}

// Dispose stops the station. A gate call still in flight is abandoned and
// no listener call happens once Dispose has returned. It must not be
// called from the listener.
func (s *Session) Dispose() {
	s.mu.Lock()
	if s.disposed.Swap(true) {
		s.mu.Unlock()
		return
	}
	s.gen++
	s.cancelTimerLocked()
	s.state = Idle
	s.view = View{State: Idle}
	s.mu.Unlock()

	// Wait out a delivery that started before the flag was set.
	s.notifyMu.Lock()
	s.notifyMu.Unlock()
}

// Run starts the station and feeds it frames until ctx ends or frames is
// closed. An empty frame dismisses the current result, which is how a
// keyboard-wedge scanner operator presses "try again". When frames closes
// the verdict of a code still being checked is delivered before Run
// returns.
func (s *Session) Run(ctx context.Context, frames <-chan string) error {
	defer s.Dispose()
	s.Start()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				s.drain(ctx)
				return nil
			}
			if frame == "" {
				s.Dismiss()
				continue
			}
			if !s.HandleScan(ctx, frame) {
				s.log.Debug().Str("state", s.State().String()).Msg("scan dropped")
			}
		}
	}
}

// drain waits for the gate call in flight, if any, or for ctx.
func (s *Session) drain(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (s *Session) setScanningLocked() {
	s.cancelTimerLocked()
	s.state = Scanning
	s.view = View{State: Scanning, Message: s.t.T(s.locale, "scan.ready", nil)}
}

func (s *Session) cancelTimerLocked() {
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
}

// publishLocked hands the current view to the listener and releases s.mu.
// notifyMu is taken before s.mu is released so deliveries keep the order of
// the transitions.
func (s *Session) publishLocked() {
	v := s.view
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	if s.disposed.Load() {
		return
	}
	s.listener(v)
}
