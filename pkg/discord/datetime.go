package discord

import "time"

// FormatEventDateTime renders t in loc the way operators read dates
// (day first, 24h clock).
func FormatEventDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02/01/2006 15:04")
}
