package firestore

import (
	"strings"
	"time"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
	"invitapp/pkg/tz"
)

type scheduleDoc struct {
	Time     string `firestore:"time"`
	Activity string `firestore:"activity"`
}

type eventDoc struct {
	HostID   string        `firestore:"hostId"`
	Name     string        `firestore:"name"`
	Date     any           `firestore:"date"` // timestamp, or a form string in older documents
	Location string        `firestore:"location"`
	MapURL   string        `firestore:"mapUrl"`
	Schedule []scheduleDoc `firestore:"schedule"`
	ThemeID  string        `firestore:"themeId"`

	CreatedAt time.Time `firestore:"createdAt,omitempty"`
	UpdatedAt time.Time `firestore:"updatedAt,omitempty"`
}

type guestDoc struct {
	Name            string    `firestore:"name"`
	Group           string    `firestore:"group"`
	Passes          int64     `firestore:"passes"`
	Status          string    `firestore:"status"`
	ConfirmedPasses int64     `firestore:"confirmedPasses"`
	Attended        bool      `firestore:"attended"`
	AttendedAt      time.Time `firestore:"attendedAt,omitempty"`
	CreatedAt       time.Time `firestore:"createdAt,omitempty"`
	UpdatedAt       time.Time `firestore:"updatedAt,omitempty"`
}

// legacyStatuses are the values the legacy dashboard wrote.
var legacyStatuses = map[string]string{
	"pendiente":  domain.StatusPending,
	"confirmado": domain.StatusConfirmed,
	"declinado":  domain.StatusDeclined,
}

func normalizeStatus(s string) string {
	if domain.IsStatus(s) {
		return s
	}
	if status, ok := legacyStatuses[strings.ToLower(strings.TrimSpace(s))]; ok {
		return status
	}
	return domain.StatusPending
}

func eventFromDoc(id string, d eventDoc, loc *time.Location) entities.Event {
	e := entities.Event{
		ID:        id,
		HostID:    d.HostID,
		Name:      d.Name,
		Location:  d.Location,
		MapURL:    d.MapURL,
		ThemeID:   d.ThemeID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	switch v := d.Date.(type) {
	case time.Time:
		e.Date = v
	case string:
		if t, err := tz.ParseLocal(v, loc); err == nil {
			e.Date = t
		}
	}
	for _, item := range d.Schedule {
		e.Schedule = append(e.Schedule, entities.ScheduleItem{Time: item.Time, Activity: item.Activity})
	}
	return e
}

func eventToDoc(e *entities.Event) eventDoc {
	d := eventDoc{
		HostID:    e.HostID,
		Name:      e.Name,
		Date:      e.Date,
		Location:  e.Location,
		MapURL:    e.MapURL,
		Schedule:  []scheduleDoc{},
		ThemeID:   e.ThemeID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	for _, item := range e.Schedule {
		d.Schedule = append(d.Schedule, scheduleDoc{Time: item.Time, Activity: item.Activity})
	}
	return d
}

// guestFromDoc also repairs what older documents may lack: a confirmed
// guest without confirmedPasses holds all of their passes, and the
// confirmed count never exceeds passes.
func guestFromDoc(eventID, id string, d guestDoc) entities.Guest {
	g := entities.Guest{
		ID:              id,
		EventID:         eventID,
		Name:            d.Name,
		Group:           d.Group,
		Passes:          int(d.Passes),
		Status:          normalizeStatus(d.Status),
		ConfirmedPasses: int(d.ConfirmedPasses),
		Attended:        d.Attended,
		AttendedAt:      d.AttendedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if g.Passes < 1 {
		g.Passes = 1
	}
	switch g.Status {
	case domain.StatusConfirmed:
		if g.ConfirmedPasses < 1 || g.ConfirmedPasses > g.Passes {
			g.ConfirmedPasses = g.Passes
		}
	default:
		g.ConfirmedPasses = 0
	}
	return g
}

func guestToDoc(g *entities.Guest) guestDoc {
	return guestDoc{
		Name:            g.Name,
		Group:           g.Group,
		Passes:          int64(g.Passes),
		Status:          g.Status,
		ConfirmedPasses: int64(g.ConfirmedPasses),
		Attended:        g.Attended,
		AttendedAt:      g.AttendedAt,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}
