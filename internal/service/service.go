package service

import (
	"context"
	"time"

	"garden_panel/internal/logger"
	"garden_panel/internal/metrics"
	"garden_panel/internal/models"
	"garden_panel/internal/repository"
)

// Backend is the device API as seen by the panel. *backend.Client implements it.
type Backend interface {
	CameraURL(ms int, t int64) string
	SolenoidStatus(ctx context.Context) (models.StatusSnapshot, error)
	TriggerSolenoid(ctx context.Context, id string) (models.CommandResult, error)
	Flow(ctx context.Context, from time.Time) (models.FlowBatch, error)
	PulseFlow(ctx context.Context) error
}

// Renderer receives everything the panel displays. *panel.Store implements it.
type Renderer interface {
	SetVideoFeed(src string)
	SetStatus(raw string)
	SetJobResult(msg string)
	SetFlow(raw string)
	SetWatermark(t time.Time)
	SetSimulation(hz float64, running bool)
}

// Snapshotter exposes the rendered panel for reading.
type Snapshotter interface {
	Snapshot() models.PanelState
}

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Camera keeps the rendered camera URL fresh.
type Camera interface {
	Run(ctx context.Context, every time.Duration)
	Refresh() string
}

// StatusPoller mirrors the solenoid status into the panel.
type StatusPoller interface {
	Run(ctx context.Context, every time.Duration)
	Poll(ctx context.Context) error
}

// Solenoid issues one-shot watering commands.
type Solenoid interface {
	Trigger(ctx context.Context, id string) (models.CommandResult, error)
}

// FlowPoller follows flow samples with a forward-only watermark.
type FlowPoller interface {
	Run(ctx context.Context, every time.Duration)
	Poll(ctx context.Context) error
	Restore(ctx context.Context) error
}

// Simulator drives synthetic flow pulses against the backend.
type Simulator interface {
	Start(ctx context.Context, hz string) error
	Stop(ctx context.Context)
	State() SimulationState
}

// Monitoring exposes the rendered panel.
type Monitoring interface {
	GetState(ctx context.Context) (models.PanelState, error)
}

// EventLog records and lists operator actions.
type EventLog interface {
	Record(ctx context.Context, typ, description string, meta any)
	List(ctx context.Context, f LogFilter) ([]models.PanelEvent, error)
}

// Service aggregates all sub-services.
type Service struct {
	Camera
	StatusPoller
	Solenoid
	FlowPoller
	Simulator
	Monitoring
	EventLog
	Authorization
}

// Panel is a renderer that can also be read back.
type Panel interface {
	Renderer
	Snapshotter
}

// Deps carries everything NewService wires together.
type Deps struct {
	Repos   *repository.Repository
	Backend Backend
	Panel   Panel
	Metrics *metrics.Metrics
	Log     *logger.Logger
	Options Options
}

// Options are the panel toggles and tunables taken from configuration.
type Options struct {
	CameraEnabled bool
	CameraMS      int
	PinMock       bool
	Auth          AuthOptions
}

// NewService wires repositories, transport and renderer into concrete services.
func NewService(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}

	session := NewSession()
	events := NewEventLogService(d.Repos.EventRepo, log.Named("events"))

	return &Service{
		Camera:        NewCameraService(d.Backend, d.Panel, d.Options.CameraEnabled, d.Options.CameraMS),
		StatusPoller:  NewStatusService(d.Backend, d.Panel, d.Metrics, log.Named("status")),
		Solenoid:      NewSolenoidService(d.Backend, d.Panel, events, log.Named("solenoid")),
		FlowPoller:    NewFlowService(d.Backend, d.Panel, session, d.Repos.WatermarkRepo, d.Metrics, log.Named("flow")),
		Simulator:     NewSimulatorService(d.Backend, d.Panel, session, events, d.Metrics, log.Named("simulator"), d.Options.PinMock),
		Monitoring:    NewMonitoringService(d.Panel),
		EventLog:      events,
		Authorization: NewAuthService(d.Repos.Auth, d.Options.Auth),
	}
}
