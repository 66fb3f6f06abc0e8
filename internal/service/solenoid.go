package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"garden_panel/internal/logger"
	"garden_panel/internal/models"
)

var ErrNoSolenoidSelected = errors.New("no solenoid selected")

type SolenoidService struct {
	backend Backend
	render  Renderer
	events  EventLog
	log     *logger.Logger
}

func NewSolenoidService(backend Backend, render Renderer, events EventLog, log *logger.Logger) *SolenoidService {
	return &SolenoidService{backend: backend, render: render, events: events, log: log}
}

// Trigger asks the backend to water through solenoid id. The backend runs at
// most one job at a time; a rejected trigger comes back with Queued=false and
// is rendered as such, it is not an error.
func (s *SolenoidService) Trigger(ctx context.Context, id string) (models.CommandResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.CommandResult{}, ErrNoSolenoidSelected
	}

	res, err := s.backend.TriggerSolenoid(ctx, id)
	if err != nil {
		return models.CommandResult{}, fmt.Errorf("trigger solenoid %s: %w", id, err)
	}

	msg := res.Message()
	s.render.SetJobResult(msg)
	s.log.Infow("solenoid_triggered", "id", id, "queued", res.Queued)
	s.events.Record(ctx, models.EventSolenoidTrigger, fmt.Sprintf("Solenoid %s: %s", id, msg), map[string]any{
		"id":     id,
		"queued": res.Queued,
	})
	return res, nil
}
