package application

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
	"invitapp/pkg/passcode"
)

// CheckInService is the door gate: it decides, once per guest, whether a
// scanned pass admits its holder.
type CheckInService struct {
	guestRepo output.GuestRepository
	now       func() time.Time
}

func NewCheckInService(guestRepo output.GuestRepository) *CheckInService {
	return &CheckInService{
		guestRepo: guestRepo,
		now:       time.Now,
	}
}

// CheckIn validates token against the event being admitted and records the
// guest's attendance. Admission is a conditional store update, so two
// stations scanning the same pass concurrently admit it exactly once; the
// other sees VerdictAlreadyCheckedIn. RSVP status is not consulted.
//
// Rejections are returned as verdicts with a nil error. The error is set
// only when the store failed, and then wraps domain.ErrWriteFailed.
func (s *CheckInService) CheckIn(ctx context.Context, token, expectedEventID string) (entities.CheckIn, error) {
	decoded := passcode.Decode(token)
	switch decoded.Kind {
	case passcode.Malformed:
		return entities.CheckIn{Verdict: entities.VerdictInvalidCode}, nil
	case passcode.Structured:
		if decoded.EventID != expectedEventID {
			return entities.CheckIn{Verdict: entities.VerdictWrongEvent, GuestID: decoded.GuestID}, nil
		}
	}

	if !storableID(decoded.GuestID) {
		return entities.CheckIn{Verdict: entities.VerdictUnknownGuest}, nil
	}

	guest, won, err := s.guestRepo.MarkAttended(ctx, expectedEventID, decoded.GuestID, s.now().UTC())
	if errors.Is(err, domain.ErrGuestNotFound) {
		return entities.CheckIn{Verdict: entities.VerdictUnknownGuest, GuestID: decoded.GuestID}, nil
	}
	if err != nil {
		return entities.CheckIn{}, storeError("mark attended", domain.ErrWriteFailed, err)
	}

	result := entities.CheckIn{
		Verdict:    entities.VerdictAlreadyCheckedIn,
		GuestID:    guest.ID,
		GuestName:  guest.Name,
		AttendedAt: guest.AttendedAt,
	}
	if won {
		result.Verdict = entities.VerdictAdmitted
	}
	return result, nil
}

// storableID reports whether id can be a guest key in every store. Text
// from unrelated QR codes (URLs, binary payloads) cannot name a guest.
func storableID(id string) bool {
	return utf8.ValidString(id) && !strings.Contains(id, "/")
}
