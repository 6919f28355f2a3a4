// Package passcode encodes the identity of a guest into the text carried by
// a QR entry pass and parses scanned text back.
//
// Current passes carry {"eventId":"…","guestId":"…"}. Passes issued before
// the event id was embedded carry the bare guest id and still decode, as
// BareID, so the scanner must supply the event it is admitting for.
package passcode

import (
	"encoding/json"
	"strings"
)

// Kind classifies a decoded scan.
type Kind int

const (
	Malformed Kind = iota
	Structured
	BareID
)

func (k Kind) String() string {
	switch k {
	case Structured:
		return "structured"
	case BareID:
		return "bare_id"
	default:
		return "malformed"
	}
}

// Result is the outcome of Decode. EventID is empty unless Kind is
// Structured; GuestID is empty when Kind is Malformed.
type Result struct {
	Kind    Kind
	EventID string
	GuestID string
}

type payload struct {
	EventID string `json:"eventId"`
	GuestID string `json:"guestId"`
}

// Encode returns the pass text for a guest.
func Encode(eventID, guestID string) string {
	b, err := json.Marshal(payload{EventID: eventID, GuestID: guestID})
	if err != nil {
		// Marshalling two strings cannot fail.
		panic("passcode: encode: " + err.Error())
	}
	return string(b)
}

// Decode parses scanned text. It never fails: text that is not a JSON
// object is taken as a bare guest id, and a JSON object without both
// identifiers as strings is Malformed.
func Decode(raw string) Result {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Result{Kind: Malformed}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil || fields == nil {
		return Result{Kind: BareID, GuestID: text}
	}

	eventID, ok := stringField(fields, "eventId")
	if !ok {
		return Result{Kind: Malformed}
	}
	guestID, ok := stringField(fields, "guestId")
	if !ok {
		return Result{Kind: Malformed}
	}
	return Result{Kind: Structured, EventID: eventID, GuestID: guestID}
}

func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
