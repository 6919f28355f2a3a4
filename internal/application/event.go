package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
)

type EventService struct {
	eventRepo output.EventRepository
}

func NewEventService(eventRepo output.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

func (s *EventService) CreateEvent(ctx context.Context, event *entities.Event) error {
	if err := validateEvent(event); err != nil {
		return err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*entities.Event, error) {
	return s.eventRepo.FindByID(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context, hostID string) ([]entities.Event, error) {
	return s.eventRepo.FindByHostID(ctx, hostID)
}

// UpdateEvent saves the event settings (name, date, location, map link,
// theme). The owner and the schedule are kept from the stored event.
func (s *EventService) UpdateEvent(ctx context.Context, event *entities.Event) error {
	if err := validateEvent(event); err != nil {
		return err
	}
	current, err := s.eventRepo.FindByID(ctx, event.ID)
	if err != nil {
		return err
	}
	event.HostID = current.HostID
	event.Schedule = current.Schedule
	event.CreatedAt = current.CreatedAt
	return s.eventRepo.Update(ctx, event)
}

// UpdateSchedule replaces the event program. Entries without an activity
// are dropped.
func (s *EventService) UpdateSchedule(ctx context.Context, id string, schedule []entities.ScheduleItem) (*entities.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cleaned := make([]entities.ScheduleItem, 0, len(schedule))
	for _, item := range schedule {
		item.Time = strings.TrimSpace(item.Time)
		item.Activity = strings.TrimSpace(item.Activity)
		if item.Activity == "" {
			continue
		}
		cleaned = append(cleaned, item)
	}
	event.Schedule = cleaned
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.eventRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, id)
}

func validateEvent(event *entities.Event) error {
	event.Name = strings.TrimSpace(event.Name)
	event.Location = strings.TrimSpace(event.Location)
	event.MapURL = strings.TrimSpace(event.MapURL)
	if event.Name == "" || event.Location == "" || event.Date.IsZero() {
		return domain.ErrInvalidEvent
	}
	return nil
}
