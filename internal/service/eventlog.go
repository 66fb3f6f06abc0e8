package service

import (
	"context"
	"time"

	"garden_panel/internal/logger"
	"garden_panel/internal/models"
	"garden_panel/internal/repository"

	"github.com/google/uuid"
)

// EventLogService is the operator audit trail.
type EventLogService struct {
	repo repository.EventRepo
	log  *logger.Logger
	now  func() time.Time
}

func NewEventLogService(repo repository.EventRepo, log *logger.Logger) *EventLogService {
	return &EventLogService{repo: repo, log: log, now: time.Now}
}

// Record appends an operator action. A failed write is logged and dropped so
// that the command it describes still succeeds.
func (s *EventLogService) Record(ctx context.Context, typ, description string, meta any) {
	ev := models.PanelEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  s.now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	}
	// the request context may already be gone once the command returned
	if err := s.repo.Append(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Errorw("event_append_failed", "err", err, "type", typ, "event_id", ev.EventID)
	}
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.PanelEvent, error) {
	f, err := f.normalized()
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, f.From, f.To, f.Type)
}
