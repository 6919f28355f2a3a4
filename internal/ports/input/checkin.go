package input

import (
	"context"

	"invitapp/internal/domain/entities"
)

// CheckInUseCase is the door gate. Rejections are verdicts; the error is
// reserved for store failures.
type CheckInUseCase interface {
	CheckIn(ctx context.Context, token, expectedEventID string) (entities.CheckIn, error)
}

type StatsUseCase interface {
	EventStats(ctx context.Context, eventID string) (entities.Stats, error)
	GlobalStats(ctx context.Context, hostID string) (entities.Stats, error)
}

// ExportUseCase produces downloadable documents about an event.
type ExportUseCase interface {
	Calendar(ctx context.Context, eventID, link string) ([]byte, error)
	GuestSheet(ctx context.Context, eventID, locale string) ([]byte, error)
}
