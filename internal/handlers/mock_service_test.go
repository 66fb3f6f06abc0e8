package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"garden_panel/internal/models"
	"garden_panel/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	mu sync.Mutex

	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// parsedToken is safe to call while a server goroutine may be parsing.
func (m *mockAuth) parsedToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastParseToken
}

type mockSolenoid struct {
	res    models.CommandResult
	err    error
	lastID string
	calls  int
}

func (m *mockSolenoid) Trigger(ctx context.Context, id string) (models.CommandResult, error) {
	m.calls++
	m.lastID = id
	return m.res, m.err
}

type mockSimulator struct {
	startErr  error
	state     service.SimulationState
	lastHz    string
	starts    int
	stopCalls int
}

func (m *mockSimulator) Start(ctx context.Context, hz string) error {
	m.starts++
	m.lastHz = hz
	return m.startErr
}
func (m *mockSimulator) Stop(ctx context.Context) {
	m.stopCalls++
	m.state = service.SimulationState{}
}
func (m *mockSimulator) State() service.SimulationState { return m.state }

type mockMonitoring struct {
	state models.PanelState
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.PanelState, error) {
	return m.state, m.err
}

type mockEventLog struct {
	resp     []models.PanelEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) Record(ctx context.Context, typ, description string, meta any) {}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.PanelEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
