package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"garden_panel/internal/models"
)

// ---- Test doubles shared by the service tests ----

type fakeBackend struct {
	mu sync.Mutex

	statusResp models.StatusSnapshot
	statusErr  error

	triggerResp models.CommandResult
	triggerErr  error
	triggerIDs  []string

	flowResps []models.FlowBatch // served in order; the last one repeats
	flowErr   error
	flowFroms []time.Time

	pulseErr     error
	pulses       int
	pulsed       chan struct{}
	pulseGate    chan struct{} // holds PulseFlow after pulsed until closed
	pulseCtxErrs []error       // ctx.Err() seen as each PulseFlow returns

	// block, when set, holds SolenoidStatus/Flow until closed
	block chan struct{}
}

func (f *fakeBackend) CameraURL(ms int, t int64) string {
	return "/camera?ms=" + strconv.Itoa(ms) + "&t=" + strconv.FormatInt(t, 10)
}

func (f *fakeBackend) SolenoidStatus(ctx context.Context) (models.StatusSnapshot, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusResp, f.statusErr
}

func (f *fakeBackend) TriggerSolenoid(ctx context.Context, id string) (models.CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggerIDs = append(f.triggerIDs, id)
	return f.triggerResp, f.triggerErr
}

func (f *fakeBackend) Flow(ctx context.Context, from time.Time) (models.FlowBatch, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flowFroms = append(f.flowFroms, from)
	if f.flowErr != nil {
		return models.FlowBatch{}, f.flowErr
	}
	if len(f.flowResps) == 0 {
		return models.FlowBatch{Raw: []byte(`{"timestamp":null}`)}, nil
	}
	resp := f.flowResps[0]
	if len(f.flowResps) > 1 {
		f.flowResps = f.flowResps[1:]
	}
	return resp, nil
}

func (f *fakeBackend) PulseFlow(ctx context.Context) error {
	f.mu.Lock()
	f.pulses++
	ch, gate, err := f.pulsed, f.pulseGate, f.pulseErr
	f.mu.Unlock()
	if ch != nil {
		ch <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	f.pulseCtxErrs = append(f.pulseCtxErrs, ctx.Err())
	f.mu.Unlock()
	return err
}

func (f *fakeBackend) lastFroms() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.flowFroms...)
}

// recordingRenderer captures every render call.
type recordingRenderer struct {
	mu         sync.Mutex
	videoFeeds []string
	statuses   []string
	jobResults []string
	flows      []string
	watermarks []time.Time
	simHz      float64
	simRunning bool
	simCalls   int
}

func (r *recordingRenderer) SetVideoFeed(src string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videoFeeds = append(r.videoFeeds, src)
}

func (r *recordingRenderer) SetStatus(raw string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, raw)
}

func (r *recordingRenderer) SetJobResult(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobResults = append(r.jobResults, msg)
}

func (r *recordingRenderer) SetFlow(raw string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows = append(r.flows, raw)
}

func (r *recordingRenderer) SetWatermark(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watermarks = append(r.watermarks, t)
}

func (r *recordingRenderer) SetSimulation(hz float64, running bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.simHz, r.simRunning = hz, running
	r.simCalls++
}

func (r *recordingRenderer) Snapshot() models.PanelState {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := models.PanelState{SimulationHz: r.simHz, Simulating: r.simRunning}
	if n := len(r.statuses); n > 0 {
		st.Status = r.statuses[n-1]
	}
	if n := len(r.flows); n > 0 {
		st.Flow = r.flows[n-1]
	}
	return st
}

// fakeEventRepo satisfies repository.EventRepo.
type fakeEventRepo struct {
	mu sync.Mutex

	gotFrom time.Time
	gotTo   time.Time
	gotType string

	events    []models.PanelEvent
	err       error
	appendErr error
	appended  []models.PanelEvent

	calls int
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.PanelEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotFrom, f.gotTo, f.gotType = from, to, typ
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.PanelEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

// fakeWatermarkRepo satisfies repository.WatermarkRepo.
type fakeWatermarkRepo struct {
	mu      sync.Mutex
	stored  time.Time
	loadErr error
	saveErr error
	saves   []time.Time
}

func (f *fakeWatermarkRepo) Save(ctx context.Context, t time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, t)
	if f.saveErr == nil {
		f.stored = t
	}
	return f.saveErr
}

func (f *fakeWatermarkRepo) Load(ctx context.Context) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored, f.loadErr
}

// fakeTicker is driven by the test through fire.
type fakeTicker struct {
	d       time.Duration
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) Chan() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *fakeTicker) fire() { t.ch <- time.Now() }

// tickerRecorder hands out fakeTickers and remembers them.
type tickerRecorder struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (r *tickerRecorder) factory(d time.Duration) ticker {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &fakeTicker{d: d, ch: make(chan time.Time)}
	r.tickers = append(r.tickers, t)
	return t
}

func (r *tickerRecorder) all() []*fakeTicker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*fakeTicker(nil), r.tickers...)
}

func (r *tickerRecorder) active() []*fakeTicker {
	var out []*fakeTicker
	for _, t := range r.all() {
		if !t.isStopped() {
			out = append(out, t)
		}
	}
	return out
}

// waitFor polls cond until it holds or a second passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
