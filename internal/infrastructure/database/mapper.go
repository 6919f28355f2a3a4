package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"invitapp/internal/domain/entities"
)

const (
	eventColumns = `id, host_id, name, date, location, map_url, schedule, theme_id, created_at, updated_at`
	guestColumns = `id, event_id, name, grp, passes, status, confirmed_passes, attended, attended_at, created_at, updated_at`

	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

type eventRow struct {
	ID        string
	HostID    string
	Name      string
	Date      pgtype.Timestamptz
	Location  string
	MapURL    string
	Schedule  []byte
	ThemeID   string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type guestRow struct {
	ID              string
	EventID         string
	Name            string
	Group           string
	Passes          int32
	Status          string
	ConfirmedPasses int32
	Attended        bool
	AttendedAt      pgtype.Timestamptz
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

func scanEvent(row pgx.Row) (eventRow, error) {
	var r eventRow
	err := row.Scan(&r.ID, &r.HostID, &r.Name, &r.Date, &r.Location, &r.MapURL,
		&r.Schedule, &r.ThemeID, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func scanGuest(row pgx.Row) (guestRow, error) {
	var r guestRow
	err := row.Scan(&r.ID, &r.EventID, &r.Name, &r.Group, &r.Passes, &r.Status,
		&r.ConfirmedPasses, &r.Attended, &r.AttendedAt, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

func timeToPgtypeTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func eventToDomain(r eventRow) (entities.Event, error) {
	e := entities.Event{
		ID:        r.ID,
		HostID:    r.HostID,
		Name:      r.Name,
		Date:      pgtypeTimestamptzToTime(r.Date),
		Location:  r.Location,
		MapURL:    r.MapURL,
		ThemeID:   r.ThemeID,
		CreatedAt: pgtypeTimestamptzToTime(r.CreatedAt),
		UpdatedAt: pgtypeTimestamptzToTime(r.UpdatedAt),
	}
	if len(r.Schedule) > 0 {
		if err := json.Unmarshal(r.Schedule, &e.Schedule); err != nil {
			return entities.Event{}, fmt.Errorf("decode schedule of event %s: %w", r.ID, err)
		}
	}
	return e, nil
}

func guestToDomain(r guestRow) entities.Guest {
	return entities.Guest{
		ID:              r.ID,
		EventID:         r.EventID,
		Name:            r.Name,
		Group:           r.Group,
		Passes:          int(r.Passes),
		Status:          r.Status,
		ConfirmedPasses: int(r.ConfirmedPasses),
		Attended:        r.Attended,
		AttendedAt:      pgtypeTimestamptzToTime(r.AttendedAt),
		CreatedAt:       pgtypeTimestamptzToTime(r.CreatedAt),
		UpdatedAt:       pgtypeTimestamptzToTime(r.UpdatedAt),
	}
}

func encodeSchedule(items []entities.ScheduleItem) ([]byte, error) {
	if items == nil {
		items = []entities.ScheduleItem{}
	}
	return json.Marshal(items)
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
