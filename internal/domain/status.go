package domain

// Guest RSVP statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDeclined  = "declined"
)

// IsDecision reports whether status is a value a guest may submit as an
// RSVP answer.
func IsDecision(status string) bool {
	return status == StatusConfirmed || status == StatusDeclined
}

// IsStatus reports whether status is any known guest status.
func IsStatus(status string) bool {
	return status == StatusPending || IsDecision(status)
}
