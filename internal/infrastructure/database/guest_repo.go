package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
)

var _ output.GuestRepository = (*GuestRepository)(nil)

// GuestRepository implements output.GuestRepository on PostgreSQL. Every
// state change is a single conditional UPDATE so concurrent writers never
// need a read-modify-write round trip.
type GuestRepository struct {
	db  DBTX
	hub *ChangeHub
}

// NewGuestRepository creates a GuestRepository. hub may be nil, in which
// case Subscribe only delivers the initial list.
func NewGuestRepository(db DBTX, hub *ChangeHub) *GuestRepository {
	return &GuestRepository{db: db, hub: hub}
}

func (r *GuestRepository) Create(ctx context.Context, guest *entities.Guest) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO guests (id, event_id, name, grp, passes, status, confirmed_passes, attended, attended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		guest.ID, guest.EventID, guest.Name, guest.Group, guest.Passes, guest.Status,
		guest.ConfirmedPasses, guest.Attended, timeToPgtypeTimestamptz(guest.AttendedAt),
	).Scan(&guest.CreatedAt, &guest.UpdatedAt)
	switch pgErrorCode(err) {
	case foreignKeyViolation:
		return domain.ErrEventNotFound
	case checkViolation:
		return domain.ErrInvalidPasses
	}
	if err != nil {
		return fmt.Errorf("insert guest: %w", err)
	}
	return nil
}

func (r *GuestRepository) FindByID(ctx context.Context, eventID, guestID string) (*entities.Guest, error) {
	row, err := scanGuest(r.db.QueryRow(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE event_id = $1 AND id = $2`, eventID, guestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get guest by id: %w", err)
	}
	g := guestToDomain(row)
	return &g, nil
}

func (r *GuestRepository) FindByEventID(ctx context.Context, eventID string) ([]entities.Guest, error) {
	return r.list(ctx, `
		SELECT `+guestColumns+` FROM guests
		WHERE event_id = $1
		ORDER BY lower(name), id`, eventID)
}

func (r *GuestRepository) FindAll(ctx context.Context) ([]entities.Guest, error) {
	return r.list(ctx, `SELECT `+guestColumns+` FROM guests ORDER BY lower(name), id`)
}

func (r *GuestRepository) list(ctx context.Context, sql string, args ...any) ([]entities.Guest, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	defer rows.Close()

	out := []entities.Guest{}
	for rows.Next() {
		row, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guest: %w", err)
		}
		out = append(out, guestToDomain(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	return out, nil
}

// Update saves the host-managed fields. The pass count may not drop below
// what a confirmed guest already holds; the guard is part of the WHERE
// clause so a concurrent RSVP cannot slip between check and write.
func (r *GuestRepository) Update(ctx context.Context, guest *entities.Guest) error {
	if guest.Passes < 1 {
		return domain.ErrInvalidPasses
	}
	row, err := scanGuest(r.db.QueryRow(ctx, `
		UPDATE guests
		SET name = $3, grp = $4, passes = $5, updated_at = now()
		WHERE event_id = $1 AND id = $2
		  AND (status <> 'confirmed' OR confirmed_passes <= $5)
		RETURNING `+guestColumns,
		guest.EventID, guest.ID, guest.Name, guest.Group, guest.Passes))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, findErr := r.FindByID(ctx, guest.EventID, guest.ID); findErr != nil {
			return findErr
		}
		return domain.ErrPassesBelowConfirmed
	}
	if err != nil {
		return fmt.Errorf("update guest: %w", err)
	}
	*guest = guestToDomain(row)
	return nil
}

// UpdateRSVP applies the decision in one statement. The pass clamp is
// repeated in SQL against the stored passes, which wins over any value the
// caller computed from an older read.
func (r *GuestRepository) UpdateRSVP(ctx context.Context, eventID, guestID, decision string, requestedPasses int) (*entities.Guest, error) {
	if !domain.IsDecision(decision) {
		return nil, domain.ErrInvalidDecision
	}
	row, err := scanGuest(r.db.QueryRow(ctx, `
		UPDATE guests
		SET status = $3,
		    confirmed_passes = CASE WHEN $3 = 'confirmed'
		                            THEN LEAST(GREATEST($4::int, 1), passes)
		                            ELSE 0 END,
		    updated_at = now()
		WHERE event_id = $1 AND id = $2
		RETURNING `+guestColumns,
		eventID, guestID, decision, requestedPasses))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update rsvp: %w", err)
	}
	g := guestToDomain(row)
	return &g, nil
}

// MarkAttended admits the guest if nobody has yet. won is false when the
// row was already attended; the returned guest then carries the original
// attended_at.
func (r *GuestRepository) MarkAttended(ctx context.Context, eventID, guestID string, at time.Time) (*entities.Guest, bool, error) {
	row, err := scanGuest(r.db.QueryRow(ctx, `
		UPDATE guests
		SET attended = true, attended_at = $3, updated_at = now()
		WHERE event_id = $1 AND id = $2 AND NOT attended
		RETURNING `+guestColumns,
		eventID, guestID, at))
	if err == nil {
		g := guestToDomain(row)
		return &g, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("mark attended: %w", err)
	}
	g, err := r.FindByID(ctx, eventID, guestID)
	if err != nil {
		return nil, false, err
	}
	return g, false, nil
}

func (r *GuestRepository) Delete(ctx context.Context, eventID, guestID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM guests WHERE event_id = $1 AND id = $2`, eventID, guestID)
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGuestNotFound
	}
	return nil
}

// Subscribe delivers the current list immediately and again after every
// change notified on the guest_changes channel for eventID.
func (r *GuestRepository) Subscribe(ctx context.Context, eventID string, fn output.GuestListener) (func(), error) {
	initial, err := r.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	fn(initial)
	if r.hub == nil {
		return func() {}, nil
	}
	remove := r.hub.add(eventID, func(ctx context.Context) error {
		guests, err := r.FindByEventID(ctx, eventID)
		if err != nil {
			return err
		}
		fn(guests)
		return nil
	})
	stop := context.AfterFunc(ctx, remove)
	return func() {
		stop()
		remove()
	}, nil
}
