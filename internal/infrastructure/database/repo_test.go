package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
)

// testPool connects to INVITAPP_TEST_DATABASE_URL and applies the
// migrations, or skips the test when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("INVITAPP_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("INVITAPP_TEST_DATABASE_URL not set")
	}
	log := zerolog.Nop()
	migrations, err := filepath.Abs(filepath.Join("..", "..", "..", "migrations"))
	if err != nil {
		t.Fatal(err)
	}
	if err := RunMigrations(dsn, migrations, log); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	pool, err := NewPool(context.Background(), dsn, log)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func createEvent(t *testing.T, repo *EventRepository) *entities.Event {
	t.Helper()
	e := &entities.Event{
		ID:       uuid.NewString(),
		HostID:   "host-" + uuid.NewString(),
		Name:     "Boda",
		Date:     time.Date(2026, 11, 21, 18, 0, 0, 0, time.UTC),
		Location: "Hacienda",
		Schedule: []entities.ScheduleItem{{Time: "18:00", Activity: "Ceremonia"}},
	}
	if err := repo.Create(context.Background(), e); err != nil {
		t.Fatalf("Create event: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(context.Background(), e.ID) })
	return e
}

func createGuest(t *testing.T, repo *GuestRepository, eventID string, passes int) *entities.Guest {
	t.Helper()
	g := &entities.Guest{
		ID:      uuid.NewString(),
		EventID: eventID,
		Name:    "Jane Doe",
		Passes:  passes,
		Status:  domain.StatusPending,
	}
	if err := repo.Create(context.Background(), g); err != nil {
		t.Fatalf("Create guest: %v", err)
	}
	return g
}

func TestEventRepository_RoundTrip(t *testing.T) {
	pool := testPool(t)
	repo := NewEventRepository(pool)
	e := createEvent(t, repo)

	got, err := repo.FindByID(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Name != e.Name || !got.Date.Equal(e.Date) || len(got.Schedule) != 1 {
		t.Errorf("got %+v", got)
	}
	if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("missing: err = %v", err)
	}
}

func TestGuestRepository_RSVPClampsAgainstStoredPasses(t *testing.T) {
	pool := testPool(t)
	e := createEvent(t, NewEventRepository(pool))
	repo := NewGuestRepository(pool, nil)
	g := createGuest(t, repo, e.ID, 4)

	got, err := repo.UpdateRSVP(context.Background(), e.ID, g.ID, domain.StatusConfirmed, 6)
	if err != nil {
		t.Fatalf("UpdateRSVP: %v", err)
	}
	if got.ConfirmedPasses != 4 {
		t.Errorf("confirmedPasses = %d, want 4", got.ConfirmedPasses)
	}
	got, err = repo.UpdateRSVP(context.Background(), e.ID, g.ID, domain.StatusDeclined, 6)
	if err != nil {
		t.Fatalf("UpdateRSVP decline: %v", err)
	}
	if got.ConfirmedPasses != 0 {
		t.Errorf("declined confirmedPasses = %d, want 0", got.ConfirmedPasses)
	}
}

func TestGuestRepository_MarkAttendedOnce(t *testing.T) {
	pool := testPool(t)
	e := createEvent(t, NewEventRepository(pool))
	repo := NewGuestRepository(pool, nil)
	g := createGuest(t, repo, e.ID, 1)
	start := time.Date(2026, 11, 21, 19, 0, 0, 0, time.UTC)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, won, err := repo.MarkAttended(context.Background(), e.ID, g.ID, start.Add(time.Duration(i)*time.Second))
			if err != nil {
				t.Errorf("MarkAttended: %v", err)
				return
			}
			if won {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	if wins != 1 {
		t.Errorf("wins = %d, want 1", wins)
	}

	if _, _, err := repo.MarkAttended(context.Background(), e.ID, "ghost", start); !errors.Is(err, domain.ErrGuestNotFound) {
		t.Errorf("unknown guest: err = %v", err)
	}
}

func TestGuestRepository_UpdateRefusesBelowConfirmed(t *testing.T) {
	pool := testPool(t)
	e := createEvent(t, NewEventRepository(pool))
	repo := NewGuestRepository(pool, nil)
	g := createGuest(t, repo, e.ID, 4)
	if _, err := repo.UpdateRSVP(context.Background(), e.ID, g.ID, domain.StatusConfirmed, 3); err != nil {
		t.Fatal(err)
	}

	g.Passes = 2
	if err := repo.Update(context.Background(), g); !errors.Is(err, domain.ErrPassesBelowConfirmed) {
		t.Errorf("err = %v, want ErrPassesBelowConfirmed", err)
	}
}

func TestEventRepository_DeleteCascades(t *testing.T) {
	pool := testPool(t)
	events := NewEventRepository(pool)
	e := createEvent(t, events)
	repo := NewGuestRepository(pool, nil)
	g := createGuest(t, repo, e.ID, 1)

	if err := events.Delete(context.Background(), e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), e.ID, g.ID); !errors.Is(err, domain.ErrGuestNotFound) {
		t.Errorf("guest survived: %v", err)
	}
}

func TestGuestRepository_SubscribeReceivesNotifications(t *testing.T) {
	pool := testPool(t)
	e := createEvent(t, NewEventRepository(pool))
	hub := NewChangeHub(pool, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.Run(ctx) }()
	repo := NewGuestRepository(pool, hub)

	updates := make(chan []entities.Guest, 8)
	stop, err := repo.Subscribe(ctx, e.ID, func(list []entities.Guest) { updates <- list })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer stop()
	if initial := <-updates; len(initial) != 0 {
		t.Fatalf("initial = %v", initial)
	}

	// LISTEN is asynchronous; keep writing until a notification arrives.
	deadline := time.After(10 * time.Second)
	for {
		createGuest(t, repo, e.ID, 1)
		select {
		case list := <-updates:
			if len(list) == 0 {
				t.Fatalf("update without guests")
			}
			return
		case <-time.After(200 * time.Millisecond):
		case <-deadline:
			t.Fatal("no notification received")
		}
	}
}
