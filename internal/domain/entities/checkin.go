package entities

import "time"

// Verdict is the admission decision for one scanned pass.
type Verdict string

const (
	VerdictAdmitted         Verdict = "admitted"
	VerdictAlreadyCheckedIn Verdict = "already_checked_in"
	VerdictUnknownGuest     Verdict = "unknown_guest"
	VerdictInvalidCode      Verdict = "invalid_code"
	VerdictWrongEvent       Verdict = "wrong_event"
)

// CheckIn is the result of presenting a pass at the door. GuestName is set
// whenever the guest record was found.
type CheckIn struct {
	Verdict    Verdict
	GuestID    string
	GuestName  string
	AttendedAt time.Time
}

// Admitted reports whether the scan let the guest in right now.
func (c CheckIn) Admitted() bool {
	return c.Verdict == VerdictAdmitted
}
