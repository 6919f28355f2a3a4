package application

import (
	"context"
	"fmt"

	"invitapp/internal/domain"
	"invitapp/internal/ports/output"
)

type ExportService struct {
	eventRepo output.EventRepository
	guestRepo output.GuestRepository
	calendar  output.CalendarEncoder
	sheets    output.GuestSheetWriter
}

func NewExportService(eventRepo output.EventRepository, guestRepo output.GuestRepository, calendar output.CalendarEncoder, sheets output.GuestSheetWriter) *ExportService {
	return &ExportService{
		eventRepo: eventRepo,
		guestRepo: guestRepo,
		calendar:  calendar,
		sheets:    sheets,
	}
}

func (s *ExportService) Calendar(ctx context.Context, eventID, link string) ([]byte, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	data, err := s.calendar.Calendar(*event, link)
	if err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return data, nil
}

func (s *ExportService) GuestSheet(ctx context.Context, eventID, locale string) ([]byte, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	guests, err := s.guestRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, storeError("list guests", domain.ErrStoreUnavailable, err)
	}
	data, err := s.sheets.GuestSheet(locale, *event, guests)
	if err != nil {
		return nil, fmt.Errorf("write guest sheet: %w", err)
	}
	return data, nil
}
