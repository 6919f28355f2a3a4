package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	db DBTX
}

func NewEventRepository(db DBTX) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	schedule, err := encodeSchedule(event.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO events (id, host_id, name, date, location, map_url, schedule, theme_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		event.ID, event.HostID, event.Name, event.Date, event.Location,
		event.MapURL, schedule, event.ThemeID,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*entities.Event, error) {
	row, err := scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	e, err := eventToDomain(row)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) FindByHostID(ctx context.Context, hostID string) ([]entities.Event, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE host_id = $1
		ORDER BY created_at DESC, id`, hostID)
	if err != nil {
		return nil, fmt.Errorf("get events by host id: %w", err)
	}
	defer rows.Close()

	out := []entities.Event{}
	for rows.Next() {
		row, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e, err := eventToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get events by host id: %w", err)
	}
	return out, nil
}

func (r *EventRepository) Update(ctx context.Context, event *entities.Event) error {
	schedule, err := encodeSchedule(event.Schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	err = r.db.QueryRow(ctx, `
		UPDATE events
		SET name = $2, date = $3, location = $4, map_url = $5, schedule = $6,
		    theme_id = $7, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		event.ID, event.Name, event.Date, event.Location, event.MapURL, schedule, event.ThemeID,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes the event; its guests go with it through ON DELETE CASCADE.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
