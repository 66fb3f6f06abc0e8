package service

import (
	"context"
	"sync"
	"time"
)

// Session is the state shared between the flow poller and the simulator:
// the flow watermark and the single active simulation run.
type Session struct {
	mu        sync.Mutex
	watermark time.Time

	simMu sync.Mutex
	sim   *simRun
}

func NewSession() *Session {
	return &Session{}
}

// Watermark returns the newest observed flow timestamp and whether one exists.
func (s *Session) Watermark() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watermark, !s.watermark.IsZero()
}

// Advance moves the watermark to t if t is newer. It reports whether it moved.
func (s *Session) Advance(t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !t.After(s.watermark) {
		return false
	}
	s.watermark = t
	return true
}

// simRun is one running simulation. done is closed once its goroutine exits.
type simRun struct {
	hz       float64
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// replaceSimulation tears down the current run, waits for it to exit and
// installs next (which may be nil). It returns the run that was stopped.
func (s *Session) replaceSimulation(next func() *simRun) *simRun {
	s.simMu.Lock()
	defer s.simMu.Unlock()

	prev := s.sim
	if prev != nil {
		prev.cancel()
		<-prev.done
	}
	s.sim = nil
	if next != nil {
		s.sim = next()
	}
	return prev
}

func (s *Session) simulation() *simRun {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	return s.sim
}
