package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
	"invitapp/pkg/passcode"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCheckIn_FirstAdmitsSecondIsDuplicate(t *testing.T) {
	store, event, guests := seed(t, map[string]int{"Jane Doe": 2})
	gate := NewCheckInService(store.Guests())
	first := time.Date(2026, 11, 21, 19, 0, 0, 0, time.UTC)
	gate.now = fixedClock(first)
	token := passcode.Encode(event.ID, guests["Jane Doe"].ID)
	ctx := context.Background()

	got, err := gate.CheckIn(ctx, token, event.ID)
	if err != nil {
		t.Fatalf("first CheckIn: %v", err)
	}
	if got.Verdict != entities.VerdictAdmitted || got.GuestName != "Jane Doe" {
		t.Errorf("first = %+v, want Admitted(Jane Doe)", got)
	}

	gate.now = fixedClock(first.Add(time.Minute))
	got, err = gate.CheckIn(ctx, token, event.ID)
	if err != nil {
		t.Fatalf("second CheckIn: %v", err)
	}
	if got.Verdict != entities.VerdictAlreadyCheckedIn || got.GuestName != "Jane Doe" {
		t.Errorf("second = %+v, want AlreadyCheckedIn(Jane Doe)", got)
	}
	if !got.AttendedAt.Equal(first) {
		t.Errorf("AttendedAt = %v, want first admission time %v", got.AttendedAt, first)
	}

	stored, _ := store.Guests().FindByID(ctx, event.ID, guests["Jane Doe"].ID)
	if !stored.Attended || !stored.AttendedAt.Equal(first) {
		t.Errorf("stored attended=%v at=%v, want true at %v", stored.Attended, stored.AttendedAt, first)
	}
}

func TestCheckIn_WrongEventDoesNotTouchStore(t *testing.T) {
	store, _, _ := seed(t, nil)
	counting := &countingGuests{GuestRepository: store.Guests()}
	gate := NewCheckInService(counting)

	got, err := gate.CheckIn(context.Background(), passcode.Encode("event-A", "g1"), "event-B")
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if got.Verdict != entities.VerdictWrongEvent {
		t.Errorf("verdict = %s, want wrong_event", got.Verdict)
	}
	if counting.calls != 0 {
		t.Errorf("store calls = %d, want 0", counting.calls)
	}
}

func TestCheckIn_UnknownGuest(t *testing.T) {
	store, event, _ := seed(t, map[string]int{"Jane Doe": 1})
	gate := NewCheckInService(store.Guests())

	got, err := gate.CheckIn(context.Background(), passcode.Encode(event.ID, "ghost"), event.ID)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if got.Verdict != entities.VerdictUnknownGuest {
		t.Errorf("verdict = %s, want unknown_guest", got.Verdict)
	}
}

func TestCheckIn_InvalidCode(t *testing.T) {
	store, event, _ := seed(t, nil)
	counting := &countingGuests{GuestRepository: store.Guests()}
	gate := NewCheckInService(counting)

	for _, token := range []string{"", `{"guestId":"g1"}`, `{"eventId":"x","guestId":7}`} {
		got, err := gate.CheckIn(context.Background(), token, event.ID)
		if err != nil {
			t.Fatalf("CheckIn(%q): %v", token, err)
		}
		if got.Verdict != entities.VerdictInvalidCode {
			t.Errorf("CheckIn(%q) verdict = %s, want invalid_code", token, got.Verdict)
		}
	}
	if counting.calls != 0 {
		t.Errorf("store calls = %d, want 0", counting.calls)
	}
}

func TestCheckIn_BareIDUsesExpectedEvent(t *testing.T) {
	store, event, guests := seed(t, map[string]int{"Jane Doe": 1})
	gate := NewCheckInService(store.Guests())

	got, err := gate.CheckIn(context.Background(), guests["Jane Doe"].ID, event.ID)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if got.Verdict != entities.VerdictAdmitted {
		t.Errorf("verdict = %s, want admitted", got.Verdict)
	}
}

func TestCheckIn_IgnoresRSVPStatus(t *testing.T) {
	store, event, guests := seed(t, map[string]int{"Jane Doe": 2})
	ctx := context.Background()
	id := guests["Jane Doe"].ID
	if _, err := NewRSVPService(store.Guests()).SubmitRSVP(ctx, event.ID, id, domain.StatusDeclined, 0); err != nil {
		t.Fatalf("SubmitRSVP: %v", err)
	}

	got, err := NewCheckInService(store.Guests()).CheckIn(ctx, passcode.Encode(event.ID, id), event.ID)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if got.Verdict != entities.VerdictAdmitted {
		t.Errorf("declined guest verdict = %s, want admitted", got.Verdict)
	}
}

func TestCheckIn_ConcurrentStationsAdmitOnce(t *testing.T) {
	store, event, guests := seed(t, map[string]int{"Jane Doe": 2})
	token := passcode.Encode(event.ID, guests["Jane Doe"].ID)

	const stations = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		dupes    int
		stamps   = map[time.Time]bool{}
	)
	start := time.Date(2026, 11, 21, 19, 0, 0, 0, time.UTC)
	for i := 0; i < stations; i++ {
		gate := NewCheckInService(store.Guests())
		gate.now = fixedClock(start.Add(time.Duration(i) * time.Second))
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := gate.CheckIn(context.Background(), token, event.ID)
			if err != nil {
				t.Errorf("CheckIn: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			switch got.Verdict {
			case entities.VerdictAdmitted:
				admitted++
			case entities.VerdictAlreadyCheckedIn:
				dupes++
			}
			stamps[got.AttendedAt] = true
		}()
	}
	wg.Wait()

	if admitted != 1 || dupes != stations-1 {
		t.Errorf("admitted=%d duplicates=%d, want 1 and %d", admitted, dupes, stations-1)
	}
	if len(stamps) != 1 {
		t.Errorf("observed %d distinct attendedAt values, want 1", len(stamps))
	}
}

func TestCheckIn_StoreFailureIsRetryable(t *testing.T) {
	store, event, guests := seed(t, map[string]int{"Jane Doe": 1})
	gate := NewCheckInService(&flakyGuests{GuestRepository: store.Guests(), failAttend: true})

	_, err := gate.CheckIn(context.Background(), passcode.Encode(event.ID, guests["Jane Doe"].ID), event.ID)
	if !errors.Is(err, domain.ErrWriteFailed) {
		t.Fatalf("err = %v, want ErrWriteFailed", err)
	}
	stored, _ := store.Guests().FindByID(context.Background(), event.ID, guests["Jane Doe"].ID)
	if stored.Attended {
		t.Errorf("guest marked attended after a failed write")
	}
}

func TestCheckIn_ForeignCodesAreUnknownGuests(t *testing.T) {
	store, event, _ := seed(t, map[string]int{"Jane Doe": 1})
	counting := &countingGuests{GuestRepository: store.Guests()}
	gate := NewCheckInService(counting)

	for _, token := range []string{
		"https://example.com/menu",
		"\xff\xfe",
		passcode.Encode(event.ID, "a/b"),
	} {
		got, err := gate.CheckIn(context.Background(), token, event.ID)
		if err != nil {
			t.Fatalf("CheckIn(%q): %v", token, err)
		}
		if got.Verdict != entities.VerdictUnknownGuest {
			t.Errorf("CheckIn(%q) verdict = %s, want unknown_guest", token, got.Verdict)
		}
	}
	if counting.calls != 0 {
		t.Errorf("store calls = %d, want 0", counting.calls)
	}
}
