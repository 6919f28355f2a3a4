package entities

import (
	"net/url"
	"time"
)

// ScheduleItem is one entry of an event's program ("18:00 Ceremonia").
type ScheduleItem struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

type Event struct {
	ID        string
	HostID    string
	Name      string
	Date      time.Time
	Location  string
	MapURL    string // optional, overrides the location search link
	Schedule  []ScheduleItem
	ThemeID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSchedule reports whether the host published a program for the event.
func (e *Event) HasSchedule() bool {
	return len(e.Schedule) > 0
}

// MapLink returns the host-provided map URL, or a map search for the
// location when none was set.
func (e *Event) MapLink() string {
	if e.MapURL != "" {
		return e.MapURL
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(e.Location)
}
