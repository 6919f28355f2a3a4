package i18n

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestTranslator(t *testing.T) {
	tr := NewTranslator("es", zerolog.Nop())

	tests := []struct {
		locale, key string
		data        map[string]any
		want        string
	}{
		{"", "scan.admitted", map[string]any{"Name": "Ana"}, "¡Bienvenido/a Ana!"},
		{"es-MX", "scan.already_checked_in", map[string]any{"Name": "Ana"}, "¡Ana ya hizo check-in antes!"},
		{"en", "scan.wrong_event", nil, "This pass belongs to another event."},
		{"en-US,en;q=0.9", "scan.unknown_guest", nil, "Guest not found."},
		{"fr", "scan.verifying", nil, "Verificando..."},
		{"es", "no.such.key", nil, "no.such.key"},
	}
	for _, tt := range tests {
		if got := tr.T(tt.locale, tt.key, tt.data); got != tt.want {
			t.Errorf("T(%q, %q) = %q, want %q", tt.locale, tt.key, got, tt.want)
		}
	}
}
