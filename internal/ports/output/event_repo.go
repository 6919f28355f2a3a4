package output

import (
	"context"

	"invitapp/internal/domain/entities"
)

type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, id string) (*entities.Event, error)
	FindByHostID(ctx context.Context, hostID string) ([]entities.Event, error)
	Update(ctx context.Context, event *entities.Event) error
	// Delete removes the event together with its guests.
	Delete(ctx context.Context, id string) error
}
