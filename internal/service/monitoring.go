package service

import (
	"context"

	"garden_panel/internal/models"
)

type MonitoringService struct {
	panel Snapshotter
}

func NewMonitoringService(panel Snapshotter) *MonitoringService {
	return &MonitoringService{panel: panel}
}

// GetState returns the panel as it is currently rendered.
func (s *MonitoringService) GetState(ctx context.Context) (models.PanelState, error) {
	if err := ctx.Err(); err != nil {
		return models.PanelState{}, err
	}
	return s.panel.Snapshot(), nil
}
