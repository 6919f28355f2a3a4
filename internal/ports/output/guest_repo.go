package output

import (
	"context"
	"time"

	"invitapp/internal/domain/entities"
)

// GuestListener receives the full guest list of an event, ordered by name,
// after every change.
type GuestListener func(guests []entities.Guest)

// GuestRepository is the guest record store. FindByID, UpdateRSVP,
// MarkAttended and Delete return domain.ErrGuestNotFound for unknown
// guests.
type GuestRepository interface {
	Create(ctx context.Context, guest *entities.Guest) error
	FindByID(ctx context.Context, eventID, guestID string) (*entities.Guest, error)
	FindByEventID(ctx context.Context, eventID string) ([]entities.Guest, error)
	FindAll(ctx context.Context) ([]entities.Guest, error)

	// Update persists host-editable fields (name, group, passes) only.
	Update(ctx context.Context, guest *entities.Guest) error

	// UpdateRSVP applies an RSVP decision as a single atomic write, clamping
	// the confirmed passes against the stored pass count. Attendance fields
	// are left untouched.
	UpdateRSVP(ctx context.Context, eventID, guestID, decision string, requestedPasses int) (*entities.Guest, error)

	// MarkAttended sets attended and attended_at only if the guest has not
	// been admitted yet. It returns the stored guest and whether this call
	// performed the transition.
	MarkAttended(ctx context.Context, eventID, guestID string, at time.Time) (*entities.Guest, bool, error)

	Delete(ctx context.Context, eventID, guestID string) error

	// Subscribe registers fn for live updates of the event's guest list. fn
	// is called once with the current list, then after each change, until
	// unsubscribe is called or ctx is done.
	Subscribe(ctx context.Context, eventID string, fn GuestListener) (unsubscribe func(), err error)
}
