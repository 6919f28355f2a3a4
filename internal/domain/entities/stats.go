package entities

// Stats counts guests and passes. Confirmed passes use the passes the
// guest committed to; pending passes use the capacity still unanswered.
type Stats struct {
	Guests          int `json:"guests"`
	Confirmed       int `json:"confirmed"`
	Pending         int `json:"pending"`
	Declined        int `json:"declined"`
	TotalPasses     int `json:"total_passes"`
	ConfirmedPasses int `json:"confirmed_passes"`
	PendingPasses   int `json:"pending_passes"`
	Attended        int `json:"attended"`
}
