package input

import (
	"context"

	"invitapp/internal/domain/entities"
)

type EventUseCase interface {
	CreateEvent(ctx context.Context, event *entities.Event) error
	GetEvent(ctx context.Context, id string) (*entities.Event, error)
	ListEvents(ctx context.Context, hostID string) ([]entities.Event, error)
	UpdateEvent(ctx context.Context, event *entities.Event) error
	UpdateSchedule(ctx context.Context, id string, schedule []entities.ScheduleItem) (*entities.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
