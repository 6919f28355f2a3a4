package entities

import (
	"time"

	"invitapp/internal/domain"
)

// Guest is an invited party holding one or more passes to a single event.
type Guest struct {
	ID              string
	EventID         string
	Name            string
	Group           string
	Passes          int
	Status          string
	ConfirmedPasses int // 0 unless Status is confirmed
	Attended        bool
	AttendedAt      time.Time // zero until Attended
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ClampPasses bounds a requested pass count to [1, g.Passes].
func (g *Guest) ClampPasses(requested int) int {
	if requested < 1 {
		return 1
	}
	if requested > g.Passes {
		return g.Passes
	}
	return requested
}

// ApplyRSVP moves the guest along an RSVP edge. Any decision is legal from
// any state; confirming clamps the requested passes, declining clears them.
// Attendance is never touched.
func (g *Guest) ApplyRSVP(decision string, requestedPasses int) error {
	if !domain.IsDecision(decision) {
		return domain.ErrInvalidDecision
	}
	g.Status = decision
	if decision == domain.StatusConfirmed {
		g.ConfirmedPasses = g.ClampPasses(requestedPasses)
	} else {
		g.ConfirmedPasses = 0
	}
	return nil
}

// MarkAttended flips Attended to true and stamps AttendedAt. It returns
// false, leaving the guest unchanged, when the guest was already admitted.
func (g *Guest) MarkAttended(at time.Time) bool {
	if g.Attended {
		return false
	}
	g.Attended = true
	g.AttendedAt = at
	return true
}

// HasPass reports whether an entry pass may be shown for the guest.
func (g *Guest) HasPass() bool {
	return g.Status == domain.StatusConfirmed
}

// CanResize reports whether passes may replace g.Passes without breaking
// the confirmed pass commitment.
func (g *Guest) CanResize(passes int) error {
	if passes < 1 {
		return domain.ErrInvalidPasses
	}
	if g.Status == domain.StatusConfirmed && passes < g.ConfirmedPasses {
		return domain.ErrPassesBelowConfirmed
	}
	return nil
}
