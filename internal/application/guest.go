package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
)

// GuestService covers the host's guest list management.
type GuestService struct {
	guestRepo output.GuestRepository
	eventRepo output.EventRepository
}

func NewGuestService(guestRepo output.GuestRepository, eventRepo output.EventRepository) *GuestService {
	return &GuestService{
		guestRepo: guestRepo,
		eventRepo: eventRepo,
	}
}

// AddGuest registers a new guest as pending and not yet attended.
func (s *GuestService) AddGuest(ctx context.Context, guest *entities.Guest) error {
	if _, err := s.eventRepo.FindByID(ctx, guest.EventID); err != nil {
		return err
	}
	guest.Name = strings.TrimSpace(guest.Name)
	guest.Group = strings.TrimSpace(guest.Group)
	if guest.Name == "" {
		return domain.ErrInvalidGuest
	}
	if guest.Passes < 1 {
		return domain.ErrInvalidPasses
	}
	if guest.ID == "" {
		guest.ID = uuid.NewString()
	}
	guest.Status = domain.StatusPending
	guest.ConfirmedPasses = 0
	guest.Attended = false
	guest.AttendedAt = time.Time{}
	if err := s.guestRepo.Create(ctx, guest); err != nil {
		return fmt.Errorf("create guest: %w", err)
	}
	return nil
}

func (s *GuestService) GetGuest(ctx context.Context, eventID, guestID string) (*entities.Guest, error) {
	guest, err := s.guestRepo.FindByID(ctx, eventID, guestID)
	if err != nil {
		return nil, storeError("find guest", domain.ErrStoreUnavailable, err)
	}
	return guest, nil
}

func (s *GuestService) ListGuests(ctx context.Context, eventID string) ([]entities.Guest, error) {
	guests, err := s.guestRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, storeError("list guests", domain.ErrStoreUnavailable, err)
	}
	return guests, nil
}

// EditGuest changes the host-managed fields of a guest. Lowering passes
// below what the guest already confirmed is refused.
func (s *GuestService) EditGuest(ctx context.Context, eventID, guestID, name, group string, passes int) (*entities.Guest, error) {
	guest, err := s.guestRepo.FindByID(ctx, eventID, guestID)
	if err != nil {
		return nil, storeError("find guest", domain.ErrStoreUnavailable, err)
	}
	if err := guest.CanResize(passes); err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		guest.Name = name
	}
	guest.Group = strings.TrimSpace(group)
	guest.Passes = passes
	if err := s.guestRepo.Update(ctx, guest); err != nil {
		return nil, storeError("update guest", domain.ErrWriteFailed, err)
	}
	return guest, nil
}

func (s *GuestService) RemoveGuest(ctx context.Context, eventID, guestID string) error {
	if err := s.guestRepo.Delete(ctx, eventID, guestID); err != nil {
		return storeError("delete guest", domain.ErrWriteFailed, err)
	}
	return nil
}

// WatchGuests streams the event's guest list to fn until the returned
// function is called.
func (s *GuestService) WatchGuests(ctx context.Context, eventID string, fn output.GuestListener) (func(), error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.guestRepo.Subscribe(ctx, eventID, fn)
}
