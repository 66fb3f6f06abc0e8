package service

import (
	"context"
	"time"

	"garden_panel/internal/logger"
	"garden_panel/internal/metrics"
)

const pollerStatus = "status"

type StatusService struct {
	backend Backend
	render  Renderer
	metrics *metrics.Metrics
	log     *logger.Logger

	guard     inflight
	newTicker tickerFactory
}

func NewStatusService(backend Backend, render Renderer, m *metrics.Metrics, log *logger.Logger) *StatusService {
	return &StatusService{
		backend:   backend,
		render:    render,
		metrics:   m,
		log:       log,
		newTicker: newRealTicker,
	}
}

// Run polls the solenoid status now and on every tick until ctx is done.
// Failures keep the previous rendered status; the next tick is the retry.
func (s *StatusService) Run(ctx context.Context, every time.Duration) {
	runEvery(ctx, every, s.newTicker, func(ctx context.Context) {
		if err := s.Poll(ctx); err != nil && ctx.Err() == nil {
			s.log.Debugw("status_poll_failed", "err", err)
		}
	})
}

// Poll fetches the status once and renders the raw body.
func (s *StatusService) Poll(ctx context.Context) error {
	if !s.guard.acquire() {
		s.metrics.PollSkipped(pollerStatus)
		return ErrPollInFlight
	}
	defer s.guard.release()

	snap, err := s.backend.SolenoidStatus(ctx)
	if err != nil {
		return err
	}
	s.render.SetStatus(string(snap.Raw))
	return nil
}
