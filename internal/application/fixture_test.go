package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"invitapp/internal/domain/entities"
	"invitapp/internal/infrastructure/memory"
	"invitapp/internal/ports/output"
)

var errBoom = errors.New("connection reset by peer")

// seed creates an event with the given guests (name → passes) and returns
// the store and the created guests keyed by name.
func seed(t *testing.T, guests map[string]int) (*memory.Store, *entities.Event, map[string]*entities.Guest) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	events := NewEventService(store)
	event := &entities.Event{
		HostID:   "host-1",
		Name:     "Boda Ana & Luis",
		Date:     time.Date(2026, 11, 21, 18, 0, 0, 0, time.UTC),
		Location: "Hacienda Los Arcos",
	}
	if err := events.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	svc := NewGuestService(store.Guests(), store)
	out := make(map[string]*entities.Guest, len(guests))
	for name, passes := range guests {
		g := &entities.Guest{EventID: event.ID, Name: name, Group: "Familia", Passes: passes}
		if err := svc.AddGuest(ctx, g); err != nil {
			t.Fatalf("AddGuest(%s): %v", name, err)
		}
		out[name] = g
	}
	return store, event, out
}

// flakyGuests fails the selected write operations with errBoom.
type flakyGuests struct {
	output.GuestRepository
	failRSVP   bool
	failAttend bool
	failFind   bool
}

func (f *flakyGuests) FindByID(ctx context.Context, eventID, guestID string) (*entities.Guest, error) {
	if f.failFind {
		return nil, errBoom
	}
	return f.GuestRepository.FindByID(ctx, eventID, guestID)
}

func (f *flakyGuests) UpdateRSVP(ctx context.Context, eventID, guestID, decision string, n int) (*entities.Guest, error) {
	if f.failRSVP {
		return nil, errBoom
	}
	return f.GuestRepository.UpdateRSVP(ctx, eventID, guestID, decision, n)
}

func (f *flakyGuests) MarkAttended(ctx context.Context, eventID, guestID string, at time.Time) (*entities.Guest, bool, error) {
	if f.failAttend {
		return nil, false, errBoom
	}
	return f.GuestRepository.MarkAttended(ctx, eventID, guestID, at)
}

// countingGuests records how many store calls the gate made.
type countingGuests struct {
	output.GuestRepository
	calls int
}

func (c *countingGuests) FindByID(ctx context.Context, eventID, guestID string) (*entities.Guest, error) {
	c.calls++
	return c.GuestRepository.FindByID(ctx, eventID, guestID)
}

func (c *countingGuests) MarkAttended(ctx context.Context, eventID, guestID string, at time.Time) (*entities.Guest, bool, error) {
	c.calls++
	return c.GuestRepository.MarkAttended(ctx, eventID, guestID, at)
}
