package httpapi

import (
	"time"

	"invitapp/internal/domain/entities"
)

type scheduleItemDTO struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

type eventDTO struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Date        time.Time         `json:"date"`
	Location    string            `json:"location"`
	MapURL      string            `json:"mapUrl,omitempty"`
	MapLink     string            `json:"mapLink"`
	Schedule    []scheduleItemDTO `json:"schedule"`
	HasSchedule bool              `json:"hasSchedule"`
	ThemeID     string            `json:"themeId,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type guestDTO struct {
	ID              string     `json:"id"`
	EventID         string     `json:"eventId"`
	Name            string     `json:"name"`
	Group           string     `json:"group"`
	Passes          int        `json:"passes"`
	Status          string     `json:"status"`
	ConfirmedPasses int        `json:"confirmedPasses"`
	Attended        bool       `json:"attended"`
	AttendedAt      *time.Time `json:"attendedAt,omitempty"`
	InvitationLink  string     `json:"invitationLink,omitempty"`
}

type eventRequest struct {
	Name     string            `json:"name"`
	Date     string            `json:"date"`
	Location string            `json:"location"`
	MapURL   string            `json:"mapUrl"`
	ThemeID  string            `json:"themeId"`
	Schedule []scheduleItemDTO `json:"schedule"`
}

type scheduleRequest struct {
	Schedule []scheduleItemDTO `json:"schedule"`
}

type guestRequest struct {
	Name   string `json:"name"`
	Group  string `json:"group"`
	Passes int    `json:"passes"`
}

type rsvpRequest struct {
	Decision string `json:"decision"`
	Passes   int    `json:"passes"`
}

type checkInRequest struct {
	Code string `json:"code" binding:"required"`
}

type checkInResponse struct {
	Verdict    entities.Verdict `json:"verdict"`
	Admitted   bool             `json:"admitted"`
	GuestID    string           `json:"guestId,omitempty"`
	GuestName  string           `json:"guestName,omitempty"`
	AttendedAt *time.Time       `json:"attendedAt,omitempty"`
	Message    string           `json:"message"`
}

func toEventDTO(e *entities.Event) eventDTO {
	dto := eventDTO{
		ID:          e.ID,
		Name:        e.Name,
		Date:        e.Date,
		Location:    e.Location,
		MapURL:      e.MapURL,
		MapLink:     e.MapLink(),
		Schedule:    toScheduleDTOs(e.Schedule),
		HasSchedule: e.HasSchedule(),
		ThemeID:     e.ThemeID,
		CreatedAt:   e.CreatedAt,
	}
	return dto
}

func toScheduleDTOs(items []entities.ScheduleItem) []scheduleItemDTO {
	out := make([]scheduleItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, scheduleItemDTO(item))
	}
	return out
}

func fromScheduleDTOs(items []scheduleItemDTO) []entities.ScheduleItem {
	out := make([]entities.ScheduleItem, 0, len(items))
	for _, item := range items {
		out = append(out, entities.ScheduleItem(item))
	}
	return out
}

func toGuestDTO(g *entities.Guest, link string) guestDTO {
	dto := guestDTO{
		ID:              g.ID,
		EventID:         g.EventID,
		Name:            g.Name,
		Group:           g.Group,
		Passes:          g.Passes,
		Status:          g.Status,
		ConfirmedPasses: g.ConfirmedPasses,
		Attended:        g.Attended,
		InvitationLink:  link,
	}
	if g.Attended {
		at := g.AttendedAt
		dto.AttendedAt = &at
	}
	return dto
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
