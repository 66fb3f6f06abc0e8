package service

import (
	"context"
	"testing"
	"time"
)

func TestSession_AdvanceIsForwardOnly(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if _, ok := s.Watermark(); ok {
		t.Fatalf("new session must have no watermark")
	}

	base := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	steps := []struct {
		at   time.Time
		move bool
	}{
		{at: base, move: true},
		{at: base, move: false},
		{at: base.Add(-time.Millisecond), move: false},
		{at: base.Add(time.Millisecond), move: true},
	}
	for i, st := range steps {
		if got := s.Advance(st.at); got != st.move {
			t.Fatalf("step %d: Advance(%v)=%v; want %v", i, st.at, got, st.move)
		}
	}
	if got, _ := s.Watermark(); !got.Equal(base.Add(time.Millisecond)) {
		t.Fatalf("watermark=%v", got)
	}
}

func TestSession_ReplaceSimulationWaitsForExit(t *testing.T) {
	t.Parallel()

	s := NewSession()
	_, cancel := context.WithCancel(context.Background())
	first := &simRun{hz: 1, cancel: cancel, done: make(chan struct{})}
	s.replaceSimulation(func() *simRun { return first })

	exited := make(chan struct{})
	go func() {
		// emulates the run goroutine: exits shortly after cancel
		time.Sleep(10 * time.Millisecond)
		close(exited)
		close(first.done)
	}()

	prev := s.replaceSimulation(nil)
	if prev != first {
		t.Fatalf("expected the first run to be returned")
	}
	select {
	case <-exited:
	default:
		t.Fatalf("replaceSimulation returned before the previous run exited")
	}
	if s.simulation() != nil {
		t.Fatalf("no run should be installed")
	}
}
