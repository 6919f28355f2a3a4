package output

import "invitapp/internal/domain/entities"

// CalendarEncoder renders an event as an iCalendar (.ics) document.
type CalendarEncoder interface {
	Calendar(event entities.Event, link string) ([]byte, error)
}

// GuestSheetWriter renders a guest list as a spreadsheet with headers in
// the given locale.
type GuestSheetWriter interface {
	GuestSheet(locale string, event entities.Event, guests []entities.Guest) ([]byte, error)
}
