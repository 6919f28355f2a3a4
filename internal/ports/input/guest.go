package input

import (
	"context"

	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
)

type GuestUseCase interface {
	AddGuest(ctx context.Context, guest *entities.Guest) error
	GetGuest(ctx context.Context, eventID, guestID string) (*entities.Guest, error)
	ListGuests(ctx context.Context, eventID string) ([]entities.Guest, error)
	EditGuest(ctx context.Context, eventID, guestID, name, group string, passes int) (*entities.Guest, error)
	RemoveGuest(ctx context.Context, eventID, guestID string) error
	WatchGuests(ctx context.Context, eventID string, fn output.GuestListener) (func(), error)
}

type RSVPUseCase interface {
	SubmitRSVP(ctx context.Context, eventID, guestID, decision string, requestedPasses int) (*entities.Guest, error)
}

type PassUseCase interface {
	Pass(ctx context.Context, eventID, guestID string) (*entities.Pass, error)
}
