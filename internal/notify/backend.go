// Package notify computes and reconciles the set of future local
// notifications: one-time milestone celebrations, a rotating window of
// daily motivation, the daily check-in reminder, and craving-support
// slots. It talks to an abstract Backend and never assumes delivery.
package notify

import (
	"context"
	"fmt"
	"time"
)

// Category identifies a notification category that can be toggled as a
// unit.
type Category string

const (
	CategoryDailyCheckIn   Category = "daily-checkin"
	CategoryMilestones     Category = "milestones"
	CategoryMotivation     Category = "motivation"
	CategoryCravingSupport Category = "craving-support"
)

// Categories lists every known category.
func Categories() []Category {
	return []Category{
		CategoryDailyCheckIn,
		CategoryMilestones,
		CategoryMotivation,
		CategoryCravingSupport,
	}
}

// TimeOfDay is a wall-clock time within a day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Request is a notification to be installed with the backend. Exactly
// one of FireAt (one-shot) or FireTime+Repeats (daily repeating) is
// meaningful.
type Request struct {
	ID       string
	Category Category
	Title    string
	Body     string

	// FireAt is the absolute due instant for one-shot requests.
	FireAt time.Time

	// FireTime is the daily time-of-day for repeating requests.
	FireTime TimeOfDay
	Repeats  bool
}

// Backend installs and cancels notification requests. Implementations
// deliver at or after the due time; the scheduler never waits on
// delivery and treats the pending set as eventually consistent.
type Backend interface {
	// Enqueue installs or replaces the request with the same ID.
	Enqueue(ctx context.Context, req Request) error

	// Cancel removes the given identifiers. Unknown identifiers are
	// ignored, so cancelling a static superset is always safe.
	Cancel(ctx context.Context, ids []string) error

	// ListPending reports the identifiers currently installed.
	ListPending(ctx context.Context) (map[string]struct{}, error)
}
