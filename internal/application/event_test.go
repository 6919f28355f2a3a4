package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
)

func TestCreateEvent_RequiresNameDateLocation(t *testing.T) {
	store, _, _ := seed(t, nil)
	svc := NewEventService(store)
	date := time.Date(2026, 12, 1, 17, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event entities.Event
	}{
		{"no name", entities.Event{Date: date, Location: "Jardín"}},
		{"no date", entities.Event{Name: "Boda", Location: "Jardín"}},
		{"blank location", entities.Event{Name: "Boda", Date: date, Location: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.event
			if err := svc.CreateEvent(context.Background(), &e); !errors.Is(err, domain.ErrInvalidEvent) {
				t.Errorf("err = %v, want ErrInvalidEvent", err)
			}
		})
	}
}

func TestUpdateSchedule_DropsEmptyActivities(t *testing.T) {
	store, event, _ := seed(t, nil)
	svc := NewEventService(store)

	got, err := svc.UpdateSchedule(context.Background(), event.ID, []entities.ScheduleItem{
		{Time: " 17:00 ", Activity: "Ceremonia"},
		{Time: "18:00", Activity: "   "},
		{Time: "19:00", Activity: "Cena"},
	})
	if err != nil {
		t.Fatalf("UpdateSchedule: %v", err)
	}
	if len(got.Schedule) != 2 || got.Schedule[0].Time != "17:00" || got.Schedule[1].Activity != "Cena" {
		t.Errorf("schedule = %+v", got.Schedule)
	}
}

func TestUpdateEvent_KeepsOwnerAndSchedule(t *testing.T) {
	store, event, _ := seed(t, nil)
	svc := NewEventService(store)
	ctx := context.Background()
	if _, err := svc.UpdateSchedule(ctx, event.ID, []entities.ScheduleItem{{Time: "17:00", Activity: "Ceremonia"}}); err != nil {
		t.Fatal(err)
	}

	edit := &entities.Event{ID: event.ID, HostID: "intruder", Name: "Boda A&L", Date: event.Date, Location: "Otra sede"}
	if err := svc.UpdateEvent(ctx, edit); err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	got, _ := svc.GetEvent(ctx, event.ID)
	if got.HostID != "host-1" || len(got.Schedule) != 1 || got.Location != "Otra sede" {
		t.Errorf("got %+v", got)
	}
}

func TestDeleteEvent_RemovesGuests(t *testing.T) {
	store, event, guests := seed(t, map[string]int{"Jane Doe": 1})
	ctx := context.Background()

	if err := NewEventService(store).DeleteEvent(ctx, event.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if _, err := store.Guests().FindByID(ctx, event.ID, guests["Jane Doe"].ID); !errors.Is(err, domain.ErrGuestNotFound) {
		t.Errorf("guest survived event deletion: %v", err)
	}
	if err := NewEventService(store).DeleteEvent(ctx, event.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("second delete err = %v, want ErrEventNotFound", err)
	}
}
