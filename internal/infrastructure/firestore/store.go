package firestore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
	"invitapp/internal/ports/output"
)

var (
	_ output.EventRepository = (*EventRepository)(nil)
	_ output.GuestRepository = (*GuestRepository)(nil)
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// EventRepository implements output.EventRepository on Firestore.
type EventRepository struct {
	client *firestore.Client
	loc    *time.Location
	now    func() time.Time
}

// NewEventRepository creates an EventRepository. loc interprets event dates
// stored as plain form strings.
func NewEventRepository(client *firestore.Client, loc *time.Location) *EventRepository {
	return &EventRepository{client: client, loc: loc, now: time.Now}
}

func (r *EventRepository) ref(id string) *firestore.DocumentRef {
	return r.client.Collection(eventsCollection).Doc(id)
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	now := r.now().UTC()
	event.CreatedAt, event.UpdatedAt = now, now
	if _, err := r.ref(event.ID).Create(ctx, eventToDoc(event)); err != nil {
		return fmt.Errorf("create event document: %w", err)
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*entities.Event, error) {
	snap, err := r.ref(id).Get(ctx)
	if isNotFound(err) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event document: %w", err)
	}
	var d eventDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode event %s: %w", id, err)
	}
	e := eventFromDoc(snap.Ref.ID, d, r.loc)
	return &e, nil
}

func (r *EventRepository) FindByHostID(ctx context.Context, hostID string) ([]entities.Event, error) {
	snaps, err := r.client.Collection(eventsCollection).Where("hostId", "==", hostID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query events by host: %w", err)
	}
	out := make([]entities.Event, 0, len(snaps))
	for _, snap := range snaps {
		var d eventDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", snap.Ref.ID, err)
		}
		out = append(out, eventFromDoc(snap.Ref.ID, d, r.loc))
	}
	slices.SortFunc(out, func(a, b entities.Event) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r *EventRepository) Update(ctx context.Context, event *entities.Event) error {
	d := eventToDoc(event)
	event.UpdatedAt = r.now().UTC()
	_, err := r.ref(event.ID).Update(ctx, []firestore.Update{
		{Path: "name", Value: d.Name},
		{Path: "date", Value: d.Date},
		{Path: "location", Value: d.Location},
		{Path: "mapUrl", Value: d.MapURL},
		{Path: "schedule", Value: d.Schedule},
		{Path: "themeId", Value: d.ThemeID},
		{Path: "updatedAt", Value: event.UpdatedAt},
	})
	if isNotFound(err) {
		return domain.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("update event document: %w", err)
	}
	return nil
}

// Delete removes the event document together with its guests
// subcollection, which Firestore does not cascade on its own.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	ref := r.ref(id)
	if _, err := ref.Get(ctx); err != nil {
		if isNotFound(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("get event document: %w", err)
	}
	guests, err := ref.Collection(guestsCollection).DocumentRefs(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("list guest documents: %w", err)
	}
	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(guests)+1)
	for _, g := range guests {
		job, err := bw.Delete(g)
		if err != nil {
			bw.End()
			return fmt.Errorf("queue guest delete: %w", err)
		}
		jobs = append(jobs, job)
	}
	job, err := bw.Delete(ref)
	if err != nil {
		bw.End()
		return fmt.Errorf("queue event delete: %w", err)
	}
	jobs = append(jobs, job)
	bw.End()
	for _, j := range jobs {
		if _, err := j.Results(); err != nil {
			return fmt.Errorf("delete event %s: %w", id, err)
		}
	}
	return nil
}

// GuestRepository implements output.GuestRepository on Firestore. State
// changes run in transactions so concurrent check-in stations admit a guest
// exactly once.
type GuestRepository struct {
	client *firestore.Client
	log    zerolog.Logger
	now    func() time.Time
}

func NewGuestRepository(client *firestore.Client, log zerolog.Logger) *GuestRepository {
	return &GuestRepository{client: client, log: log, now: time.Now}
}

func (r *GuestRepository) eventRef(eventID string) *firestore.DocumentRef {
	return r.client.Collection(eventsCollection).Doc(eventID)
}

func (r *GuestRepository) ref(eventID, guestID string) *firestore.DocumentRef {
	return r.eventRef(eventID).Collection(guestsCollection).Doc(guestID)
}

func decodeGuest(snap *firestore.DocumentSnapshot) (entities.Guest, error) {
	var d guestDoc
	if err := snap.DataTo(&d); err != nil {
		return entities.Guest{}, fmt.Errorf("decode guest %s: %w", snap.Ref.ID, err)
	}
	eventID := ""
	if parent := snap.Ref.Parent.Parent; parent != nil {
		eventID = parent.ID
	}
	return guestFromDoc(eventID, snap.Ref.ID, d), nil
}

func (r *GuestRepository) Create(ctx context.Context, guest *entities.Guest) error {
	if _, err := r.eventRef(guest.EventID).Get(ctx); err != nil {
		if isNotFound(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("get event document: %w", err)
	}
	now := r.now().UTC()
	guest.CreatedAt, guest.UpdatedAt = now, now
	if _, err := r.ref(guest.EventID, guest.ID).Create(ctx, guestToDoc(guest)); err != nil {
		return fmt.Errorf("create guest document: %w", err)
	}
	return nil
}

func (r *GuestRepository) FindByID(ctx context.Context, eventID, guestID string) (*entities.Guest, error) {
	snap, err := r.ref(eventID, guestID).Get(ctx)
	if isNotFound(err) {
		return nil, domain.ErrGuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get guest document: %w", err)
	}
	g, err := decodeGuest(snap)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuestRepository) FindByEventID(ctx context.Context, eventID string) ([]entities.Guest, error) {
	snaps, err := r.eventRef(eventID).Collection(guestsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list guest documents: %w", err)
	}
	return decodeGuests(snaps)
}

func (r *GuestRepository) FindAll(ctx context.Context) ([]entities.Guest, error) {
	snaps, err := r.client.CollectionGroup(guestsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list all guest documents: %w", err)
	}
	return decodeGuests(snaps)
}

func decodeGuests(snaps []*firestore.DocumentSnapshot) ([]entities.Guest, error) {
	out := make([]entities.Guest, 0, len(snaps))
	for _, snap := range snaps {
		g, err := decodeGuest(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b entities.Guest) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// mutate reads the guest inside a transaction, lets fn change it, and
// writes the result back. fn returning errSkipWrite ends the transaction
// without a write.
func (r *GuestRepository) mutate(ctx context.Context, eventID, guestID string, fn func(*entities.Guest) error) (*entities.Guest, error) {
	ref := r.ref(eventID, guestID)
	var out entities.Guest
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if isNotFound(err) {
			return domain.ErrGuestNotFound
		}
		if err != nil {
			return err
		}
		g, err := decodeGuest(snap)
		if err != nil {
			return err
		}
		if err := fn(&g); err != nil {
			out = g
			return err
		}
		g.UpdatedAt = r.now().UTC()
		out = g
		return tx.Set(ref, guestToDoc(&g))
	})
	if errors.Is(err, errSkipWrite) {
		return &out, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

var errSkipWrite = errors.New("skip write")

func (r *GuestRepository) Update(ctx context.Context, guest *entities.Guest) error {
	updated, err := r.mutate(ctx, guest.EventID, guest.ID, func(stored *entities.Guest) error {
		if err := stored.CanResize(guest.Passes); err != nil {
			return err
		}
		stored.Name = guest.Name
		stored.Group = guest.Group
		stored.Passes = guest.Passes
		return nil
	})
	if err != nil {
		return err
	}
	*guest = *updated
	return nil
}

func (r *GuestRepository) UpdateRSVP(ctx context.Context, eventID, guestID, decision string, requestedPasses int) (*entities.Guest, error) {
	return r.mutate(ctx, eventID, guestID, func(g *entities.Guest) error {
		return g.ApplyRSVP(decision, requestedPasses)
	})
}

func (r *GuestRepository) MarkAttended(ctx context.Context, eventID, guestID string, at time.Time) (*entities.Guest, bool, error) {
	var won bool
	g, err := r.mutate(ctx, eventID, guestID, func(g *entities.Guest) error {
		won = g.MarkAttended(at)
		if !won {
			return errSkipWrite
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return g, won, nil
}

func (r *GuestRepository) Delete(ctx context.Context, eventID, guestID string) error {
	_, err := r.ref(eventID, guestID).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return domain.ErrGuestNotFound
	}
	if err != nil {
		return fmt.Errorf("delete guest document: %w", err)
	}
	return nil
}

// Subscribe listens to the guests subcollection. The first snapshot is
// delivered before Subscribe returns; later ones arrive on a goroutine until
// ctx ends or the returned function is called.
func (r *GuestRepository) Subscribe(ctx context.Context, eventID string, fn output.GuestListener) (func(), error) {
	it := r.eventRef(eventID).Collection(guestsCollection).Snapshots(ctx)
	first, err := nextGuests(it)
	if err != nil {
		it.Stop()
		return nil, fmt.Errorf("listen guests of %s: %w", eventID, err)
	}
	fn(first)

	go func() {
		for {
			guests, err := nextGuests(it)
			if err != nil {
				if !errors.Is(err, iterator.Done) && status.Code(err) != codes.Canceled && ctx.Err() == nil {
					r.log.Error().Err(err).Str("event_id", eventID).Msg("guest snapshot listener stopped")
				}
				return
			}
			fn(guests)
		}
	}()
	return it.Stop, nil
}

func nextGuests(it *firestore.QuerySnapshotIterator) ([]entities.Guest, error) {
	qs, err := it.Next()
	if err != nil {
		return nil, err
	}
	snaps, err := qs.Documents.GetAll()
	if err != nil {
		return nil, err
	}
	return decodeGuests(snaps)
}
