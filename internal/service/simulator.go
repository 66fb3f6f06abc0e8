package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"garden_panel/internal/logger"
	"garden_panel/internal/metrics"
	"garden_panel/internal/models"
)

const (
	// MaxSimulationHz bounds the synthetic pulse rate; a real hall-effect
	// flow meter is debounced at the same rate.
	MaxSimulationHz = 120.0
	// MinSimulationHz keeps the tick interval (1000s) well inside time.Duration.
	MinSimulationHz = 0.001

	maxInflightPulses = 16
	pulseTimeout      = 2 * time.Second
)

var (
	ErrMockPanelDisabled = errors.New("mock panel is disabled")
	ErrInvalidRate       = errors.New("simulation rate must be 0 or a number from 0.001")
	ErrRateTooHigh       = errors.New("simulation rate exceeds 120 Hz")
)

// SimulationState reports whether a synthetic flow run is active.
type SimulationState struct {
	Running    bool    `json:"running"`
	Hz         float64 `json:"hz"`
	IntervalMS float64 `json:"interval_ms"`
}

type SimulatorService struct {
	backend Backend
	render  Renderer
	session *Session
	events  EventLog
	metrics *metrics.Metrics
	log     *logger.Logger
	enabled bool

	pulses    chan struct{}
	newTicker tickerFactory
}

func NewSimulatorService(backend Backend, render Renderer, session *Session, events EventLog, m *metrics.Metrics, log *logger.Logger, enabled bool) *SimulatorService {
	return &SimulatorService{
		backend:   backend,
		render:    render,
		session:   session,
		events:    events,
		metrics:   m,
		log:       log,
		enabled:   enabled,
		pulses:    make(chan struct{}, maxInflightPulses),
		newTicker: newRealTicker,
	}
}

// Start (re)starts the simulation at hz pulses per second. Any running
// simulation is always torn down first, including when hz is rejected.
// "0" stops the simulation without starting a new one.
func (s *SimulatorService) Start(ctx context.Context, hz string) error {
	if !s.enabled {
		return ErrMockPanelDisabled
	}

	rate, err := parseRate(hz)
	if err == nil && rate > MaxSimulationHz {
		err = ErrRateTooHigh
	}

	var started *simRun
	prev := s.session.replaceSimulation(func() *simRun {
		if err != nil || rate == 0 {
			return nil
		}
		started = s.launch(rate)
		return started
	})

	switch {
	case started != nil:
		s.render.SetSimulation(started.hz, true)
		s.metrics.SetSimulating(true)
		s.log.Infow("simulation_started", "hz", started.hz, "interval", started.interval)
		s.events.Record(ctx, models.EventSimulationStart, fmt.Sprintf("Simulating flow at %g Hz", started.hz), map[string]any{
			"hz":          started.hz,
			"interval_ms": durationMS(started.interval),
		})
	case prev != nil:
		s.stopped(ctx, prev)
	}
	return err
}

// Stop ends the running simulation. It is a no-op when nothing runs.
func (s *SimulatorService) Stop(ctx context.Context) {
	if prev := s.session.replaceSimulation(nil); prev != nil {
		s.stopped(ctx, prev)
	}
}

// State reports the active run, if any.
func (s *SimulatorService) State() SimulationState {
	run := s.session.simulation()
	if run == nil {
		return SimulationState{}
	}
	return SimulationState{Running: true, Hz: run.hz, IntervalMS: durationMS(run.interval)}
}

func (s *SimulatorService) stopped(ctx context.Context, prev *simRun) {
	s.render.SetSimulation(0, false)
	s.metrics.SetSimulating(false)
	s.log.Infow("simulation_stopped", "hz", prev.hz)
	s.events.Record(ctx, models.EventSimulationStop, "Flow simulation stopped", map[string]any{"hz": prev.hz})
}

// launch creates the ticker synchronously so the run is observable as soon
// as Start returns.
func (s *SimulatorService) launch(rate float64) *simRun {
	interval := time.Duration(float64(time.Second) / rate)
	runCtx, cancel := context.WithCancel(context.Background())
	run := &simRun{hz: rate, interval: interval, cancel: cancel, done: make(chan struct{})}

	t := s.newTicker(interval)
	go func() {
		defer close(run.done)
		defer t.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-t.Chan():
				s.pulse()
			}
		}
	}()
	return run
}

// pulse fires one POST /api/flow without waiting for it. Pulses beyond
// maxInflightPulses outstanding requests are dropped. A pulse outlives the
// run that fired it.
func (s *SimulatorService) pulse() {
	select {
	case s.pulses <- struct{}{}:
	default:
		s.metrics.SimulatorPulse(metrics.OutcomeDropped)
		return
	}

	go func() {
		defer func() { <-s.pulses }()
		ctx, cancel := context.WithTimeout(context.Background(), pulseTimeout)
		defer cancel()

		if err := s.backend.PulseFlow(ctx); err != nil {
			s.metrics.SimulatorPulse(metrics.OutcomeError)
			s.log.Debugw("simulation_pulse_failed", "err", err)
			return
		}
		s.metrics.SimulatorPulse(metrics.OutcomeOK)
	}()
}

func parseRate(hz string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(hz), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || (v > 0 && v < MinSimulationHz) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRate, hz)
	}
	return v, nil
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
