package clock

import (
	"fmt"
	"time"
)

// DefaultZone is the civil timezone reservations and timestamps are expressed in.
const DefaultZone = "America/Argentina/Buenos_Aires"

const (
	dateLayout    = "2006-01-02"
	slotLayout    = "2006-01-02 15:04"
	displayDate   = "02/01/2006"
	displayMinute = "02/01/2006 15:04"
)

// Clock returns the current time in a fixed location. Handlers take a Clock
// instead of calling time.Now so tests can pin "now".
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type realClock struct {
	loc *time.Location
}

// Real returns a wall clock reporting time in loc.
func Real(loc *time.Location) Clock {
	return realClock{loc: loc}
}

func (c realClock) Now() time.Time           { return time.Now().In(c.loc) }
func (c realClock) Location() *time.Location { return c.loc }

type fixedClock struct {
	t time.Time
}

// Fixed returns a clock stuck at t, in t's location.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

func (c fixedClock) Now() time.Time           { return c.t }
func (c fixedClock) Location() *time.Location { return c.t.Location() }

// LoadZone resolves an IANA zone name, falling back to DefaultZone when name is empty.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// Timestamp renders the clock's current time as RFC 3339.
func Timestamp(c Clock) string {
	return c.Now().Format(time.RFC3339)
}

// FormatNow renders the current local time as DD/MM/YYYY HH:MM.
func FormatNow(c Clock) string {
	return c.Now().Format(displayMinute)
}

// ReservationInFuture reports whether date (YYYY-MM-DD) at hhmm (HH:MM), read in
// the clock's location, is strictly after now. Unparsable input is never in the future.
func ReservationInFuture(c Clock, date, hhmm string) bool {
	at, err := time.ParseInLocation(slotLayout, date+" "+hhmm, c.Location())
	if err != nil {
		return false
	}
	return at.After(c.Now())
}

// FormatDate turns YYYY-MM-DD into DD/MM/YYYY. Anything else comes back unchanged.
func FormatDate(s string) string {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return s
	}
	return d.Format(displayDate)
}
