package discord

import (
	"fmt"
	"testing"
	"time"

	"invitapp/internal/domain"
	"invitapp/internal/domain/entities"
)

type keyTranslator struct{}

func (keyTranslator) T(_, key string, _ map[string]any) string { return key }

func TestBuildCheckInEmbed_Colors(t *testing.T) {
	tests := []struct {
		verdict entities.Verdict
		want    int
	}{
		{entities.VerdictAdmitted, colorAdmitted},
		{entities.VerdictAlreadyCheckedIn, colorRepeat},
		{entities.VerdictWrongEvent, colorRejected},
		{entities.VerdictInvalidCode, colorRejected},
	}
	for _, tt := range tests {
		embed := BuildCheckInEmbed(keyTranslator{}, "es", entities.CheckIn{Verdict: tt.verdict}, time.UTC)
		if embed.Color != tt.want {
			t.Errorf("%s: color = %#x, want %#x", tt.verdict, embed.Color, tt.want)
		}
		if embed.Title != "scan."+string(tt.verdict) {
			t.Errorf("%s: title = %q", tt.verdict, embed.Title)
		}
		if embed.Footer != nil {
			t.Errorf("%s: footer without attendance time", tt.verdict)
		}
	}
}

func TestBuildStatsEmbed(t *testing.T) {
	event := &entities.Event{Name: "XV Años", Location: "Salón Real"}
	embed := BuildStatsEmbed(keyTranslator{}, "es", event, entities.Stats{Guests: 3, Attended: 2}, time.UTC)
	if embed.Fields[0].Value != "3" || embed.Fields[7].Value != "2" {
		t.Errorf("fields = %v, %v", embed.Fields[0], embed.Fields[7])
	}
}

func TestDomainErrorMessage(t *testing.T) {
	if got := DomainErrorMessage(keyTranslator{}, "es", fmt.Errorf("find: %w", domain.ErrEventNotFound)); got != "error.event_not_found" {
		t.Errorf("domain error = %q", got)
	}
	if got := DomainErrorMessage(keyTranslator{}, "es", fmt.Errorf("boom")); got != "error.internal" {
		t.Errorf("plain error = %q", got)
	}
	if got := DomainErrorMessage(keyTranslator{}, "es", nil); got != "" {
		t.Errorf("nil = %q", got)
	}
}

func TestFormatEventDateTime(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		t.Skip("tzdata not available")
	}
	at := time.Date(2026, 11, 22, 1, 30, 0, 0, time.UTC)
	if got := FormatEventDateTime(at, loc); got != "21/11/2026 19:30" {
		t.Errorf("FormatEventDateTime = %q", got)
	}
	if got := FormatEventDateTime(time.Time{}, loc); got != "" {
		t.Errorf("zero = %q", got)
	}
}
