package chat

import "time"

// IntervalStrategy selects the delay until the next poll from the current
// waiting state. It is consulted again on every tick, not only on state
// transitions, so a mid-cycle change takes effect at the next tick.
type IntervalStrategy func(waiting bool) time.Duration

func DefaultIntervalStrategy(waitingInterval, idleInterval time.Duration) IntervalStrategy {
	return func(waiting bool) time.Duration {
		if waiting {
			return waitingInterval
		}
		return idleInterval
	}
}

// Tick identifies one scheduled poll. A tick is acted on only while its
// generation is still current; arming or cancelling the scheduler
// invalidates every outstanding tick, which is what guarantees at most one
// live timer per session.
type Tick struct {
	SessionID  string
	Generation int
}

// PollScheduler owns the single repeating poll timer for the active session.
// It makes scheduling decisions only; the caller owns the actual timer
// primitive (a tea.Tick in the UI, a plain time.Sleep in one-shot commands).
type PollScheduler struct {
	strategy   IntervalStrategy
	sessionID  string
	generation int
	armed      bool
}

func NewPollScheduler(strategy IntervalStrategy) *PollScheduler {
	if strategy == nil {
		strategy = DefaultIntervalStrategy(2*time.Second, 10*time.Second)
	}
	return &PollScheduler{strategy: strategy}
}

// Arm binds the scheduler to a session and returns the first tick. Any
// previously armed session is cancelled before the new tick exists.
func (s *PollScheduler) Arm(sessionID string) Tick {
	s.generation++
	s.sessionID = sessionID
	s.armed = sessionID != ""
	return Tick{SessionID: sessionID, Generation: s.generation}
}

// Cancel invalidates all outstanding ticks.
func (s *PollScheduler) Cancel() {
	s.generation++
	s.sessionID = ""
	s.armed = false
}

func (s *PollScheduler) Armed() bool {
	return s.armed
}

func (s *PollScheduler) SessionID() string {
	return s.sessionID
}

// Valid reports whether a tick may still be acted on.
func (s *PollScheduler) Valid(tick Tick) bool {
	return s.armed && tick.Generation == s.generation && tick.SessionID == s.sessionID
}

// Next returns the follow-up tick and its delay. It returns ok=false when
// the scheduler is not armed.
func (s *PollScheduler) Next(waiting bool) (Tick, time.Duration, bool) {
	if !s.armed {
		return Tick{}, 0, false
	}
	return Tick{SessionID: s.sessionID, Generation: s.generation}, s.strategy(waiting), true
}
