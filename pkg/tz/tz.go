// Package tz resolves the venue timezone and reads the date formats event
// forms submit.
package tz

import (
	"fmt"
	"strings"
	"time"
)

// Default is the venue zone used when none is configured.
const Default = "America/Mexico_City"

// Load returns the named location, falling back to UTC when the zone
// database does not know it.
func Load(name string) (*time.Location, error) {
	if name == "" {
		name = Default
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseLocal parses s as RFC 3339, or as a date with optional HH:MM wall
// clock time in loc (what an HTML date or datetime-local input sends).
func ParseLocal(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("tz: unrecognized date %q", s)
}
