// Package memory keeps events and guests in process memory. It backs the
// service tests and single-instance development runs (STORE=memory).
package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
)

var (
	_ output.EventRepository = (*Store)(nil)
	_ output.GuestRepository = (*GuestStore)(nil)
)

type guestKey struct{ eventID, guestID string }

type listener struct {
	id int
	fn output.GuestListener
}

// Store holds both events and guests behind one lock so that event
// deletion cascades atomically.
type Store struct {
	mu        sync.RWMutex
	notifyMu  sync.Mutex
	events    map[string]entities.Event
	guests    map[guestKey]entities.Guest
	listeners map[string][]listener
	nextID    int
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		events:    make(map[string]entities.Event),
		guests:    make(map[guestKey]entities.Guest),
		listeners: make(map[string][]listener),
		now:       time.Now,
	}
}

// Guests returns the guest repository view of the store.
func (s *Store) Guests() *GuestStore {
	return &GuestStore{s: s}
}

func (s *Store) Create(_ context.Context, event *entities.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	event.CreatedAt, event.UpdatedAt = now, now
	s.events[event.ID] = cloneEvent(*event)
	return nil
}

func (s *Store) FindByID(_ context.Context, id string) (*entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	e = cloneEvent(e)
	return &e, nil
}

func (s *Store) FindByHostID(_ context.Context, hostID string) ([]entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []entities.Event{}
	for _, e := range s.events {
		if e.HostID == hostID {
			out = append(out, cloneEvent(e))
		}
	}
	// Newest first, as the dashboard lists them.
	slices.SortFunc(out, func(a, b entities.Event) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s *Store) Update(_ context.Context, event *entities.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.events[event.ID]
	if !ok {
		return domain.ErrEventNotFound
	}
	event.CreatedAt = current.CreatedAt
	event.UpdatedAt = s.now()
	s.events[event.ID] = cloneEvent(*event)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.events[id]; !ok {
		s.mu.Unlock()
		return domain.ErrEventNotFound
	}
	delete(s.events, id)
	for k := range s.guests {
		if k.eventID == id {
			delete(s.guests, k)
		}
	}
	s.mu.Unlock()
	s.notify(id)
	return nil
}

// GuestStore implements output.GuestRepository over a Store.
type GuestStore struct {
	s *Store
}

func (g *GuestStore) Create(_ context.Context, guest *entities.Guest) error {
	s := g.s
	s.mu.Lock()
	if _, ok := s.events[guest.EventID]; !ok {
		s.mu.Unlock()
		return domain.ErrEventNotFound
	}
	now := s.now()
	guest.CreatedAt, guest.UpdatedAt = now, now
	s.guests[guestKey{guest.EventID, guest.ID}] = *guest
	s.mu.Unlock()
	s.notify(guest.EventID)
	return nil
}

func (g *GuestStore) FindByID(_ context.Context, eventID, guestID string) (*entities.Guest, error) {
	s := g.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	guest, ok := s.guests[guestKey{eventID, guestID}]
	if !ok {
		return nil, domain.ErrGuestNotFound
	}
	return &guest, nil
}

func (g *GuestStore) FindByEventID(_ context.Context, eventID string) ([]entities.Guest, error) {
	s := g.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eventGuests(eventID), nil
}

func (g *GuestStore) FindAll(_ context.Context) ([]entities.Guest, error) {
	s := g.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Guest, 0, len(s.guests))
	for _, guest := range s.guests {
		out = append(out, guest)
	}
	sortGuests(out)
	return out, nil
}

func (g *GuestStore) Update(_ context.Context, guest *entities.Guest) error {
	err := g.s.mutate(guest.EventID, guest.ID, func(stored *entities.Guest) error {
		if err := stored.CanResize(guest.Passes); err != nil {
			return err
		}
		stored.Name = guest.Name
		stored.Group = guest.Group
		stored.Passes = guest.Passes
		*guest = *stored
		return nil
	})
	return err
}

func (g *GuestStore) UpdateRSVP(_ context.Context, eventID, guestID, decision string, requestedPasses int) (*entities.Guest, error) {
	var out entities.Guest
	err := g.s.mutate(eventID, guestID, func(stored *entities.Guest) error {
		if err := stored.ApplyRSVP(decision, requestedPasses); err != nil {
			return err
		}
		out = *stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GuestStore) MarkAttended(_ context.Context, eventID, guestID string, at time.Time) (*entities.Guest, bool, error) {
	var (
		out entities.Guest
		won bool
	)
	err := g.s.mutate(eventID, guestID, func(stored *entities.Guest) error {
		won = stored.MarkAttended(at)
		out = *stored
		if !won {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &out, won, nil
}

func (g *GuestStore) Delete(_ context.Context, eventID, guestID string) error {
	s := g.s
	s.mu.Lock()
	key := guestKey{eventID, guestID}
	if _, ok := s.guests[key]; !ok {
		s.mu.Unlock()
		return domain.ErrGuestNotFound
	}
	delete(s.guests, key)
	s.mu.Unlock()
	s.notify(eventID)
	return nil
}

func (g *GuestStore) Subscribe(ctx context.Context, eventID string, fn output.GuestListener) (func(), error) {
	s := g.s
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[eventID] = append(s.listeners[eventID], listener{id: id, fn: fn})
	initial := s.eventGuests(eventID)
	s.mu.Unlock()

	fn(initial)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.listeners[eventID] = slices.DeleteFunc(s.listeners[eventID], func(l listener) bool { return l.id == id })
		})
	}
	stop := context.AfterFunc(ctx, unsubscribe)
	return func() {
		stop()
		unsubscribe()
	}, nil
}

// errUnchanged lets a mutation report success without a write.
var errUnchanged = errors.New("unchanged")

// mutate applies fn to the stored guest under the write lock. The guest is
// saved only when fn succeeds.
func (s *Store) mutate(eventID, guestID string, fn func(*entities.Guest) error) error {
	s.mu.Lock()
	key := guestKey{eventID, guestID}
	stored, ok := s.guests[key]
	if !ok {
		s.mu.Unlock()
		return domain.ErrGuestNotFound
	}
	if err := fn(&stored); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	stored.UpdatedAt = s.now()
	s.guests[key] = stored
	s.mu.Unlock()
	s.notify(eventID)
	return nil
}

// notify must be called without holding s.mu. Deliveries are serialized
// and each carries the list as of delivery time, so the last one a listener
// sees is always current.
func (s *Store) notify(eventID string) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.RLock()
	fns := make([]output.GuestListener, 0, len(s.listeners[eventID]))
	for _, l := range s.listeners[eventID] {
		fns = append(fns, l.fn)
	}
	guests := s.eventGuests(eventID)
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(slices.Clone(guests))
	}
}

func (s *Store) eventGuests(eventID string) []entities.Guest {
	out := []entities.Guest{}
	for k, guest := range s.guests {
		if k.eventID == eventID {
			out = append(out, guest)
		}
	}
	sortGuests(out)
	return out
}

func sortGuests(guests []entities.Guest) {
	slices.SortFunc(guests, func(a, b entities.Guest) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func cloneEvent(e entities.Event) entities.Event {
	e.Schedule = slices.Clone(e.Schedule)
	return e
}
