package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"garden_panel/internal/models"
	"garden_panel/internal/service"

	"github.com/prometheus/client_golang/prometheus"
)

func doAuthed(r http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func TestPanelHandlers_GetState(t *testing.T) {
	mon := &mockMonitoring{state: models.PanelState{Status: `{"S0":"idle"}`, JobResult: models.ResultQueued}}
	s := &service.Service{Authorization: &mockAuth{parseID: 7}, Monitoring: mon}
	r := newTestRouter(s)

	// requires auth → 401 without header
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/panel/state", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}

	w = doAuthed(r, http.MethodGet, "/api/v1/panel/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("state status=%d, body=%s", w.Code, w.Body.String())
	}
	var st models.PanelState
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if st.Status != `{"S0":"idle"}` || st.JobResult != models.ResultQueued {
		t.Fatalf("unexpected state: %+v", st)
	}

	mon.err = errors.New("boom")
	w = doAuthed(r, http.MethodGet, "/api/v1/panel/state", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestPanelHandlers_TriggerSolenoid(t *testing.T) {
	sol := &mockSolenoid{res: models.CommandResult{Queued: false}}
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Solenoid: sol}
	r := newTestRouter(s)

	// JSON body
	w := doAuthed(r, http.MethodPost, "/api/v1/panel/solenoid", bytes.NewBufferString(`{"id":"S2"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("solenoid status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp SolenoidResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Queued || resp.Result != "Result: Another job is already running" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if sol.lastID != "S2" {
		t.Fatalf("expected id S2, got %q", sol.lastID)
	}

	// query param, like the device API itself
	sol.res = models.CommandResult{Queued: true}
	w = doAuthed(r, http.MethodPost, "/api/v1/panel/solenoid?id=S0", nil)
	if w.Code != http.StatusOK || sol.lastID != "S0" {
		t.Fatalf("query id: status=%d id=%q", w.Code, sol.lastID)
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Queued || resp.Result != "Result: Successfully queued" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPanelHandlers_TriggerSolenoidErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		body string
		want int
	}{
		{name: "no selection", err: service.ErrNoSolenoidSelected, want: http.StatusBadRequest},
		{name: "backend down", err: errors.New("connection refused"), body: `{"id":"S1"}`, want: http.StatusBadGateway},
		{name: "malformed body", body: `{"id":`, want: http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sol := &mockSolenoid{err: tc.err}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Solenoid: sol})

			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			w := doAuthed(r, http.MethodPost, "/api/v1/panel/solenoid", body)
			if w.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestPanelHandlers_Simulation(t *testing.T) {
	sim := &mockSimulator{state: service.SimulationState{Running: true, Hz: 10, IntervalMS: 100}}
	mon := &mockMonitoring{state: models.PanelState{Simulating: true, SimulationHz: 10}}
	s := &service.Service{Authorization: &mockAuth{}, Simulator: sim, Monitoring: mon}
	r := newTestRouter(s)

	w := doAuthed(r, http.MethodPost, "/api/v1/panel/simulate", bytes.NewBufferString(`{"hz":"10"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("simulate status=%d, body=%s", w.Code, w.Body.String())
	}
	if sim.lastHz != "10" {
		t.Fatalf("expected hz 10, got %q", sim.lastHz)
	}
	var resp struct {
		Status     string                  `json:"status"`
		Simulation service.SimulationState `json:"simulation"`
		State      models.PanelState       `json:"state"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != statusSimulating || resp.Simulation.IntervalMS != 100 || !resp.State.Simulating {
		t.Fatalf("unexpected response: %+v", resp)
	}

	w = doAuthed(r, http.MethodPost, "/api/v1/panel/simulate/stop", nil)
	if w.Code != http.StatusOK || sim.stopCalls != 1 {
		t.Fatalf("stop status=%d calls=%d", w.Code, sim.stopCalls)
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != statusStopped || resp.Simulation.Running {
		t.Fatalf("unexpected stop response: %+v", resp)
	}

	// hz via query string; a zero rate reports stopped
	w = doAuthed(r, http.MethodPost, "/api/v1/panel/simulate?hz=0", nil)
	if w.Code != http.StatusOK || sim.lastHz != "0" {
		t.Fatalf("query hz: status=%d hz=%q", w.Code, sim.lastHz)
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != statusStopped {
		t.Fatalf("expected stopped, got %q", resp.Status)
	}
}

func TestPanelHandlers_SimulationErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "disabled", err: service.ErrMockPanelDisabled, want: http.StatusNotFound},
		{name: "invalid", err: service.ErrInvalidRate, want: http.StatusBadRequest},
		{name: "too high", err: service.ErrRateTooHigh, want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sim := &mockSimulator{startErr: tc.err}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Simulator: sim})
			w := doAuthed(r, http.MethodPost, "/api/v1/panel/simulate", bytes.NewBufferString(`{"hz":"500"}`))
			if w.Code != tc.want {
				t.Fatalf("status=%d want %d", w.Code, tc.want)
			}
		})
	}
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "garden_panel_test_total", Help: "test"}))
	r := NewHandler(&service.Service{}, nil, reg).InitRoutes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), statusOK) {
		t.Fatalf("health status=%d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "garden_panel_test_total") {
		t.Fatalf("metrics status=%d body=%s", w.Code, w.Body.String())
	}

	// without a gatherer there is no /metrics route
	r = newTestRouter(&service.Service{})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without gatherer, got %d", w.Code)
	}
}
