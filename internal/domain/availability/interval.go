// Package availability holds the interval arithmetic behind sauna bookings:
// clock parsing, half-open overlap, the hourly availability grid and pricing.
package availability

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

// Clock is a time of day in minutes since midnight.
type Clock int

// ParseClock parses a zero-padded 24-hour "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, okH := twoDigits(s[0], s[1])
	m, okM := twoDigits(s[3], s[4])
	if !okH || !okM || h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return Clock(h*60 + m), nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// String formats the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// ParseDate parses a "YYYY-MM-DD" booking date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// Interval is the half-open range [Start, End) within one day.
type Interval struct {
	Start Clock
	End   Clock
}

// NewInterval parses two "HH:MM" strings into an interval with start < end.
func NewInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if s >= e {
		return Interval{}, fmt.Errorf("start time %s must be before end time %s", start, end)
	}
	return Interval{Start: s, End: e}, nil
}

// Overlaps reports whether the two intervals share at least one minute.
// Touching intervals (a.End == b.Start) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

// Contains reports whether t falls inside [Start, End).
func (i Interval) Contains(t Clock) bool {
	return i.Start <= t && t < i.End
}

// Minutes is the length of the interval.
func (i Interval) Minutes() int {
	return int(i.End - i.Start)
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}
