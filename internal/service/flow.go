package service

import (
	"context"
	"fmt"
	"time"

	"garden_panel/internal/logger"
	"garden_panel/internal/metrics"
	"garden_panel/internal/repository"
)

const pollerFlow = "flow"

type FlowService struct {
	backend    Backend
	render     Renderer
	session    *Session
	watermarks repository.WatermarkRepo
	metrics    *metrics.Metrics
	log        *logger.Logger

	guard     inflight
	newTicker tickerFactory
}

func NewFlowService(backend Backend, render Renderer, session *Session, watermarks repository.WatermarkRepo, m *metrics.Metrics, log *logger.Logger) *FlowService {
	return &FlowService{
		backend:    backend,
		render:     render,
		session:    session,
		watermarks: watermarks,
		metrics:    m,
		log:        log,
		newTicker:  newRealTicker,
	}
}

// Restore seeds the session with the persisted watermark so that a restart
// does not rewind the flow cursor.
func (s *FlowService) Restore(ctx context.Context) error {
	wm, err := s.watermarks.Load(ctx)
	if err != nil {
		return fmt.Errorf("load flow watermark: %w", err)
	}
	if wm.IsZero() {
		return nil
	}
	if s.session.Advance(wm) {
		s.render.SetWatermark(wm)
		s.metrics.SetWatermark(float64(wm.UnixMilli()) / 1000)
	}
	return nil
}

// Run polls flow samples now and on every tick until ctx is done.
func (s *FlowService) Run(ctx context.Context, every time.Duration) {
	runEvery(ctx, every, s.newTicker, func(ctx context.Context) {
		if err := s.Poll(ctx); err != nil && ctx.Err() == nil {
			s.log.Debugw("flow_poll_failed", "err", err)
		}
	})
}

// Poll requests samples newer than the watermark, renders the raw body and
// advances the watermark when the batch carries a newer timestamp.
func (s *FlowService) Poll(ctx context.Context) error {
	if !s.guard.acquire() {
		s.metrics.PollSkipped(pollerFlow)
		return ErrPollInFlight
	}
	defer s.guard.release()

	from, _ := s.session.Watermark()
	batch, err := s.backend.Flow(ctx, from)
	if err != nil {
		return err
	}
	s.render.SetFlow(string(batch.Raw))

	if batch.TimestampErr != nil {
		s.metrics.FlowTimestampRejected()
		s.log.Warnw("flow_timestamp_unreadable", "err", batch.TimestampErr)
		return nil
	}
	if batch.Timestamp == nil {
		return nil
	}
	ts := *batch.Timestamp
	if !s.session.Advance(ts) {
		return nil
	}

	s.render.SetWatermark(ts)
	s.metrics.SetWatermark(float64(ts.UnixMilli()) / 1000)
	if err := s.watermarks.Save(ctx, ts); err != nil {
		s.log.Warnw("flow_watermark_save_failed", "err", err, "watermark", ts)
	}
	return nil
}
