package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"invitapp/internal/application"
	"invitapp/internal/domain"
	"invitapp/internal/infrastructure/calendar"
	"invitapp/internal/infrastructure/export"
	"invitapp/internal/infrastructure/i18n"
	"invitapp/internal/infrastructure/memory"
	"invitapp/internal/infrastructure/qr"
	"invitapp/pkg/passcode"
)

type testEnv struct {
	router *gin.Engine
	store  *memory.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	guests := store.Guests()
	tr := i18n.NewTranslator("es", zerolog.Nop())
	svc := Services{
		Events:  application.NewEventService(store),
		Guests:  application.NewGuestService(guests, store),
		RSVP:    application.NewRSVPService(guests),
		Passes:  application.NewPassService(guests, qr.Renderer{}),
		CheckIn: application.NewCheckInService(guests),
		Stats:   application.NewStatsService(guests, store),
		Export:  application.NewExportService(store, guests, calendar.NewEncoder(), export.NewSheetWriter(tr, time.UTC)),
	}
	srv := NewServer(svc, tr, zerolog.Nop(), Options{
		PublicBaseURL: "https://invita.example",
		RateLimit:     "1000-M",
	})
	router, err := srv.Router()
	if err != nil {
		t.Fatalf("Router: %v", err)
	}
	return &testEnv{router: router, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, host string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if host != "" {
		req.Header.Set(hostHeader, host)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

// setup creates an event for host-1 with one guest holding four passes.
func (e *testEnv) setup(t *testing.T) (eventDTO, guestDTO) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/host/events", "host-1", eventRequest{
		Name:     "Boda Ana & Luis",
		Date:     "2026-11-21T18:00",
		Location: "Hacienda Los Arcos",
		Schedule: []scheduleItemDTO{{Time: "18:00", Activity: "Ceremonia"}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create event: %d %s", w.Code, w.Body)
	}
	event := decode[eventDTO](t, w)

	w = e.do(t, http.MethodPost, "/api/host/events/"+event.ID+"/guests", "host-1", guestRequest{Name: "Jane Doe", Group: "Amigos", Passes: 4})
	if w.Code != http.StatusCreated {
		t.Fatalf("add guest: %d %s", w.Code, w.Body)
	}
	return event, decode[guestDTO](t, w)
}

func TestRSVPFlow(t *testing.T) {
	env := newTestEnv(t)
	event, guest := env.setup(t)
	base := "/api/invitations/" + event.ID + "/" + guest.ID

	w := env.do(t, http.MethodGet, base+"/pass.png", "", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("pass before rsvp: %d, want 409", w.Code)
	}

	w = env.do(t, http.MethodPost, base+"/rsvp", "", rsvpRequest{Decision: domain.StatusConfirmed, Passes: 6})
	if w.Code != http.StatusOK {
		t.Fatalf("rsvp: %d %s", w.Code, w.Body)
	}
	got := decode[struct {
		Guest   guestDTO `json:"guest"`
		Message string   `json:"message"`
	}](t, w)
	if got.Guest.Status != domain.StatusConfirmed || got.Guest.ConfirmedPasses != 4 {
		t.Errorf("guest = %+v, want confirmed with 4 passes", got.Guest)
	}
	if !strings.Contains(got.Message, "Jane Doe") {
		t.Errorf("message = %q", got.Message)
	}

	w = env.do(t, http.MethodGet, base+"/pass.png", "", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("pass: %d %s", w.Code, w.Header().Get("Content-Type"))
	}

	w = env.do(t, http.MethodGet, base, "", nil)
	inv := decode[struct {
		Event   eventDTO `json:"event"`
		Guest   guestDTO `json:"guest"`
		HasPass bool     `json:"hasPass"`
	}](t, w)
	if !inv.HasPass || !inv.Event.HasSchedule || inv.Guest.InvitationLink == "" {
		t.Errorf("invitation = %+v", inv)
	}
}

func TestRSVP_InvalidDecision(t *testing.T) {
	env := newTestEnv(t)
	event, guest := env.setup(t)

	w := env.do(t, http.MethodPost, "/api/invitations/"+event.ID+"/"+guest.ID+"/rsvp", "", rsvpRequest{Decision: "maybe"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decode[map[string]any](t, w)
	if body["error"] != "invalid_decision" || body["retryable"] != false {
		t.Errorf("body = %v", body)
	}
}

func TestCheckInEndpoint(t *testing.T) {
	env := newTestEnv(t)
	event, guest := env.setup(t)
	path := "/api/host/events/" + event.ID + "/checkin"

	tests := []struct {
		name string
		code string
		want string
	}{
		{"first scan", passcode.Encode(event.ID, guest.ID), "admitted"},
		{"second scan", passcode.Encode(event.ID, guest.ID), "already_checked_in"},
		{"other event", passcode.Encode("other", guest.ID), "wrong_event"},
		{"missing event id", `{"guestId":"g1"}`, "invalid_code"},
		{"unknown", passcode.Encode(event.ID, "ghost"), "unknown_guest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, path, "host-1", checkInRequest{Code: tt.code})
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d %s", w.Code, w.Body)
			}
			got := decode[checkInResponse](t, w)
			if string(got.Verdict) != tt.want {
				t.Errorf("verdict = %s, want %s", got.Verdict, tt.want)
			}
			if got.Message == "" {
				t.Error("missing message")
			}
		})
	}
}

func TestHostRoutes_Authorization(t *testing.T) {
	env := newTestEnv(t)
	event, _ := env.setup(t)

	if w := env.do(t, http.MethodGet, "/api/host/events", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no host: %d, want 401", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/host/events/"+event.ID+"/guests", "host-2", nil); w.Code != http.StatusNotFound {
		t.Errorf("other host: %d, want 404", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/host/events/"+event.ID+"/guests", "host-1", nil); w.Code != http.StatusOK {
		t.Errorf("owner: %d, want 200", w.Code)
	}
}

func TestEditGuest_BelowConfirmedConflicts(t *testing.T) {
	env := newTestEnv(t)
	event, guest := env.setup(t)
	if w := env.do(t, http.MethodPost, "/api/invitations/"+event.ID+"/"+guest.ID+"/rsvp", "", rsvpRequest{Decision: domain.StatusConfirmed, Passes: 3}); w.Code != http.StatusOK {
		t.Fatalf("rsvp: %d", w.Code)
	}

	w := env.do(t, http.MethodPut, "/api/host/events/"+event.ID+"/guests/"+guest.ID, "host-1", guestRequest{Passes: 2})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if body := decode[map[string]any](t, w); body["error"] != "passes_below_confirmed" {
		t.Errorf("body = %v", body)
	}
}

func TestStatsAndDownloads(t *testing.T) {
	env := newTestEnv(t)
	event, guest := env.setup(t)

	w := env.do(t, http.MethodGet, "/api/host/events/"+event.ID+"/stats", "host-1", nil)
	stats := decode[map[string]int](t, w)
	if stats["guests"] != 1 || stats["pending_passes"] != 4 {
		t.Errorf("stats = %v", stats)
	}
	w = env.do(t, http.MethodGet, "/api/host/stats", "host-2", nil)
	if stats := decode[map[string]int](t, w); stats["guests"] != 0 {
		t.Errorf("host-2 stats = %v", stats)
	}

	w = env.do(t, http.MethodGet, "/api/invitations/"+event.ID+"/"+guest.ID+"/event.ics", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "BEGIN:VEVENT") {
		t.Errorf("ics: %d %q", w.Code, w.Body)
	}
	w = env.do(t, http.MethodGet, "/api/invitations/"+event.ID+"/ghost/event.ics", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("ics for unknown guest: %d, want 404", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/host/events/"+event.ID+"/guests/export.xlsx", "host-1", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != xlsxContentType {
		t.Errorf("xlsx: %d %s", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestDeleteEvent(t *testing.T) {
	env := newTestEnv(t)
	event, _ := env.setup(t)

	if w := env.do(t, http.MethodDelete, "/api/host/events/"+event.ID, "host-1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/host/events/"+event.ID, "host-1", nil); w.Code != http.StatusNotFound {
		t.Errorf("after delete: %d, want 404", w.Code)
	}
}

func TestStreamGuests(t *testing.T) {
	env := newTestEnv(t)
	event, _ := env.setup(t)
	ts := httptest.NewServer(env.router)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/host/events/"+event.ID+"/guests/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set(hostHeader, "host-1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		t.Helper()
		for lines.Scan() {
			if data, ok := strings.CutPrefix(lines.Text(), "data:"); ok {
				return data
			}
		}
		t.Fatalf("stream ended: %v", lines.Err())
		return ""
	}

	var initial []guestDTO
	if err := json.Unmarshal([]byte(next()), &initial); err != nil || len(initial) != 1 {
		t.Fatalf("initial = %v (%v)", initial, err)
	}

	env.do(t, http.MethodPost, "/api/host/events/"+event.ID+"/guests", "host-1", guestRequest{Name: "Aarón", Passes: 2})
	var updated []guestDTO
	if err := json.Unmarshal([]byte(next()), &updated); err != nil || len(updated) != 2 {
		t.Fatalf("updated = %v (%v)", updated, err)
	}
	if updated[0].Name != "Aarón" {
		t.Errorf("first = %q, want name order", updated[0].Name)
	}
}
