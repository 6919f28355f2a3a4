package application

import (
	"context"
	"errors"
	"fmt"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
)

// RSVPService records a guest's answer to their invitation.
type RSVPService struct {
	guestRepo output.GuestRepository
}

func NewRSVPService(guestRepo output.GuestRepository) *RSVPService {
	return &RSVPService{guestRepo: guestRepo}
}

// SubmitRSVP confirms or declines on behalf of the guest. A guest may answer
// again at any time before the event; confirming clamps requestedPasses into
// [1, passes] and declining clears the confirmed passes. On a store failure
// the returned error wraps domain.ErrWriteFailed and nothing was written.
func (s *RSVPService) SubmitRSVP(ctx context.Context, eventID, guestID, decision string, requestedPasses int) (*entities.Guest, error) {
	if !domain.IsDecision(decision) {
		return nil, domain.ErrInvalidDecision
	}
	guest, err := s.guestRepo.FindByID(ctx, eventID, guestID)
	if err != nil {
		return nil, storeError("find guest", domain.ErrStoreUnavailable, err)
	}
	if decision == domain.StatusConfirmed {
		requestedPasses = guest.ClampPasses(requestedPasses)
	} else {
		requestedPasses = 0
	}
	updated, err := s.guestRepo.UpdateRSVP(ctx, eventID, guestID, decision, requestedPasses)
	if err != nil {
		return nil, storeError("update rsvp", domain.ErrWriteFailed, err)
	}
	return updated, nil
}

// storeError keeps domain errors as they are and tags any other repository
// failure with sentinel.
func storeError(op string, sentinel, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, sentinel, err)
}
