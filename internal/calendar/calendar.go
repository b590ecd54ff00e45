package calendar

import (
	"fmt"
	"time"
)

// DayFormat is the wire format for calendar days in the settings store.
const DayFormat = "2006-01-02"

// Day is a calendar day with the time-of-day discarded. The zero value
// is "no day" (IsZero reports true). Days are comparable and usable as
// map keys.
type Day struct {
	year  int
	month time.Month
	day   int
}

// DayOf returns the calendar day containing t, in t's location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// NewDay constructs a day from its components.
func NewDay(year int, month time.Month, day int) Day {
	return Day{year: year, month: month, day: day}
}

// ParseDay parses a yyyy-MM-dd string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// IsZero reports whether d is the absent day.
func (d Day) IsZero() bool {
	return d == Day{}
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// Noon returns the instant at 12:00 on d in loc. Noon is the anchor for
// day arithmetic: DST transitions happen in the small hours, so
// differences between noons always round to whole days.
func (d Day) Noon(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 12, 0, 0, 0, loc)
}

// At returns the instant at hour:minute on d in loc.
func (d Day) At(hour, minute int, loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, hour, minute, 0, 0, loc)
}

// AddDays returns the day n calendar days after d (before, if n is
// negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.Noon(time.UTC).AddDate(0, 0, n))
}

// Distance returns the signed number of calendar days from a to b.
// Positive when b is after a. Computed between noon anchors so a DST
// shift of an hour either way cannot skew the result.
func Distance(a, b Day, loc *time.Location) int {
	hours := b.Noon(loc).Sub(a.Noon(loc)).Hours()
	// Round to the nearest day; DST offsets leave this within ±1h of a
	// whole multiple of 24.
	if hours >= 0 {
		return int((hours + 12) / 24)
	}
	return -int((-hours + 12) / 24)
}

// DaysSinceStart counts days since a start day using 1-based counting:
// the start day itself is day 1 once it has passed, and a start day in
// the future counts as 0. This is the convention milestone catch-up
// compares against the milestone table with.
func DaysSinceStart(start, today Day, loc *time.Location) int {
	if start.IsZero() {
		return 0
	}
	dist := Distance(start, today, loc)
	if dist < 0 {
		return 0
	}
	return max(1, dist+1)
}
