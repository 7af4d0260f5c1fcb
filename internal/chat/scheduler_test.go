package chat

import (
	"testing"
	"time"
)

func TestSchedulerArmCancelsOutstandingTicks(t *testing.T) {
	s := NewPollScheduler(nil)
	first := s.Arm("S1")
	if !s.Valid(first) {
		t.Fatalf("expected fresh tick valid")
	}

	second := s.Arm("S2")
	if s.Valid(first) {
		t.Fatalf("expected re-arm to invalidate earlier tick")
	}
	if !s.Valid(second) {
		t.Fatalf("expected new tick valid")
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewPollScheduler(nil)
	tick := s.Arm("S1")
	s.Cancel()
	if s.Valid(tick) {
		t.Fatalf("expected cancel to invalidate tick")
	}
	if _, _, ok := s.Next(false); ok {
		t.Fatalf("expected no next tick after cancel")
	}
}

func TestSchedulerIntervalReevaluatedEveryTick(t *testing.T) {
	s := NewPollScheduler(DefaultIntervalStrategy(time.Second, 10*time.Second))
	s.Arm("S1")

	_, interval, ok := s.Next(true)
	if !ok || interval != time.Second {
		t.Fatalf("expected waiting interval, got %v", interval)
	}
	// State flipped mid-cycle; the very next tick sees the long interval.
	_, interval, _ = s.Next(false)
	if interval != 10*time.Second {
		t.Fatalf("expected idle interval, got %v", interval)
	}
}

func TestSchedulerArmEmptySessionStaysDisarmed(t *testing.T) {
	s := NewPollScheduler(nil)
	tick := s.Arm("")
	if s.Armed() {
		t.Fatalf("expected empty session to leave scheduler disarmed")
	}
	if s.Valid(tick) {
		t.Fatalf("expected tick against empty session invalid")
	}
}
