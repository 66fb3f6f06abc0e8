package repository

import (
	"context"
	"database/sql"
	"time"

	"garden_panel/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.Operator, error)
}

// WatermarkRepo persists the newest observed flow sample time.
type WatermarkRepo interface {
	Save(ctx context.Context, observedAt time.Time) error
	Load(ctx context.Context) (time.Time, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.PanelEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.PanelEvent, error)
}

type Repository struct {
	WatermarkRepo WatermarkRepo
	EventRepo     EventRepo
	Auth          Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		WatermarkRepo: NewWatermarkSQLite(db),
		EventRepo:     NewEventSQLite(db),
		Auth:          NewOperatorRepository(db),
	}
}
