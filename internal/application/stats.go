package application

import (
	"context"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
)

// StatsService counts guests for the host dashboards. It only reads.
type StatsService struct {
	guestRepo output.GuestRepository
	eventRepo output.EventRepository
}

func NewStatsService(guestRepo output.GuestRepository, eventRepo output.EventRepository) *StatsService {
	return &StatsService{
		guestRepo: guestRepo,
		eventRepo: eventRepo,
	}
}

func (s *StatsService) EventStats(ctx context.Context, eventID string) (entities.Stats, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return entities.Stats{}, err
	}
	guests, err := s.guestRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return entities.Stats{}, storeError("list guests", domain.ErrStoreUnavailable, err)
	}
	return Tally(guests), nil
}

// GlobalStats aggregates every event of hostID, or every event in the store
// when hostID is empty.
func (s *StatsService) GlobalStats(ctx context.Context, hostID string) (entities.Stats, error) {
	if hostID == "" {
		guests, err := s.guestRepo.FindAll(ctx)
		if err != nil {
			return entities.Stats{}, storeError("list guests", domain.ErrStoreUnavailable, err)
		}
		return Tally(guests), nil
	}
	events, err := s.eventRepo.FindByHostID(ctx, hostID)
	if err != nil {
		return entities.Stats{}, storeError("list events", domain.ErrStoreUnavailable, err)
	}
	var all []entities.Guest
	for _, e := range events {
		guests, err := s.guestRepo.FindByEventID(ctx, e.ID)
		if err != nil {
			return entities.Stats{}, storeError("list guests", domain.ErrStoreUnavailable, err)
		}
		all = append(all, guests...)
	}
	return Tally(all), nil
}

// Tally counts a guest list.
func Tally(guests []entities.Guest) entities.Stats {
	var st entities.Stats
	for _, g := range guests {
		st.Guests++
		st.TotalPasses += g.Passes
		switch g.Status {
		case domain.StatusConfirmed:
			st.Confirmed++
			st.ConfirmedPasses += g.ConfirmedPasses
		case domain.StatusDeclined:
			st.Declined++
		default:
			st.Pending++
			st.PendingPasses += g.Passes
		}
		if g.Attended {
			st.Attended++
		}
	}
	return st
}
