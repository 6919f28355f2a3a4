// Package calendar exports events as iCalendar files for "add to calendar"
// links.
package calendar

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
)

// DefaultDuration is used since events only carry a start time.
const DefaultDuration = 5 * time.Hour

var _ output.CalendarEncoder = (*Encoder)(nil)

type Encoder struct {
	duration time.Duration
	now      func() time.Time
}

func NewEncoder() *Encoder {
	return &Encoder{duration: DefaultDuration, now: time.Now}
}

// Calendar builds a single-event VCALENDAR. The event id doubles as the
// UID so re-imports update the entry instead of duplicating it.
func (e *Encoder) Calendar(event entities.Event, link string) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//invitapp//invitaciones//ES")

	vevent := cal.AddEvent(event.ID + "@invitapp")
	vevent.SetDtStampTime(e.now().UTC())
	vevent.SetStartAt(event.Date)
	vevent.SetEndAt(event.Date.Add(e.duration))
	vevent.SetSummary(event.Name)
	vevent.SetLocation(event.Location)
	desc := event.MapLink()
	for _, item := range event.Schedule {
		desc += "\n" + item.Time + " " + item.Activity
	}
	vevent.SetDescription(desc)
	if link != "" {
		vevent.SetURL(link)
	}
	return []byte(cal.Serialize()), nil
}
