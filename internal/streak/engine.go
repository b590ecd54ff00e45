// Package streak maintains the user's clean-streak state: current and
// longest streak, total distinct check-in days, and the set of days
// checked in. All state lives in the settings store; the engine is the
// single writer for those keys.
package streak

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/leafless-app/leafless/internal/calendar"
	"github.com/leafless-app/leafless/internal/store"
)

// Snapshot is a consistent read-only projection of streak state.
type Snapshot struct {
	CurrentStreak     int
	LongestStreak     int
	TotalCheckInDays  int
	HasCheckedInToday bool
}

// Engine is the streak state machine. RecordCheckIn, Validate and Reset
// are writers and serialize against each other; Snapshot and
// CheckInDays are readers and may interleave freely between writers but
// never observe a write in progress.
type Engine struct {
	mu    sync.RWMutex
	kv    store.KV
	clock calendar.Clock
	loc   *time.Location
}

// New creates an Engine over the given settings store. loc is the fixed
// local timezone all calendar days are normalized to.
func New(kv store.KV, clock calendar.Clock, loc *time.Location) *Engine {
	return &Engine{kv: kv, clock: clock, loc: loc}
}

// RecordCheckIn records a check-in for the current calendar day and
// returns the updated snapshot. Idempotent per day: a second call on
// the same day changes nothing.
func (e *Engine) RecordCheckIn() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := calendar.DayOf(e.clock.Now().In(e.loc))
	last := e.lastCheckInDay()

	if last.IsZero() {
		// First check-in ever, or an unreadable stored day. Either way
		// today starts a fresh streak of one.
		e.kv.SetInt(store.KeyCheckInStreak, 1)
		e.kv.SetInt(store.KeyLongestStreak, max(e.kv.GetInt(store.KeyLongestStreak), 1))
		e.kv.SetString(store.KeyLastCheckInDay, today.String())
		e.addCheckInDay(today)
		return e.snapshotLocked(today)
	}

	if today == last {
		// Already checked in today.
		return e.snapshotLocked(today)
	}

	streak := e.kv.GetInt(store.KeyCheckInStreak)
	var next int
	switch delta := calendar.Distance(last, today, e.loc); {
	case delta == 1:
		next = streak + 1
	case delta > 1:
		// Missed at least one day; checking in today still credits today.
		next = 1
	default:
		// delta <= 0 is unreachable behind the same-day guard; keep the
		// streak rather than corrupting it.
		next = max(streak, 1)
	}

	e.kv.SetInt(store.KeyCheckInStreak, next)
	e.kv.SetInt(store.KeyLongestStreak, max(e.kv.GetInt(store.KeyLongestStreak), next))
	e.kv.SetString(store.KeyLastCheckInDay, today.String())
	e.addCheckInDay(today)
	return e.snapshotLocked(today)
}

// Validate re-checks the streak against the calendar. Called on process
// launch/resume. If more than one day has passed since the last
// check-in the streak is dead and collapses to 0; history, longest and
// total are untouched. Validate never increases the streak.
func (e *Engine) Validate() {
	e.mu.Lock()
	defer e.mu.Unlock()

	raw, ok := e.kv.GetString(store.KeyLastCheckInDay)
	if !ok || raw == "" {
		return
	}

	last, err := calendar.ParseDay(raw)
	if err != nil {
		// Malformed stored day: the streak has no anchor, kill it.
		e.kv.SetInt(store.KeyCheckInStreak, 0)
		return
	}

	today := calendar.DayOf(e.clock.Now().In(e.loc))
	if calendar.Distance(last, today, e.loc) > 1 {
		e.kv.SetInt(store.KeyCheckInStreak, 0)
	}
}

// Reset clears all streak state. Used on relapse or explicit user reset.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.kv.SetInt(store.KeyCheckInStreak, 0)
	e.kv.SetInt(store.KeyLongestStreak, 0)
	e.kv.SetInt(store.KeyTotalCheckInDays, 0)
	e.kv.SetString(store.KeyLastCheckInDay, "")
	e.kv.SetString(store.KeyCheckInDays, "")
}

// Snapshot returns the current streak values as of now.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked(calendar.DayOf(e.clock.Now().In(e.loc)))
}

// CheckInDays returns every recorded check-in day in ascending order.
func (e *Engine) CheckInDays() []calendar.Day {
	e.mu.RLock()
	defer e.mu.RUnlock()

	days := e.loadDays()
	sort.Slice(days, func(i, j int) bool {
		return calendar.Distance(days[i], days[j], e.loc) > 0
	})
	return days
}

func (e *Engine) snapshotLocked(today calendar.Day) Snapshot {
	last := e.lastCheckInDay()
	return Snapshot{
		CurrentStreak:     max(e.kv.GetInt(store.KeyCheckInStreak), 0),
		LongestStreak:     e.kv.GetInt(store.KeyLongestStreak),
		TotalCheckInDays:  e.kv.GetInt(store.KeyTotalCheckInDays),
		HasCheckedInToday: !last.IsZero() && last == today,
	}
}

// lastCheckInDay reads the stored last check-in day, treating absent
// and malformed values as zero.
func (e *Engine) lastCheckInDay() calendar.Day {
	raw, ok := e.kv.GetString(store.KeyLastCheckInDay)
	if !ok || raw == "" {
		return calendar.Day{}
	}
	d, err := calendar.ParseDay(raw)
	if err != nil {
		return calendar.Day{}
	}
	return d
}

// addCheckInDay inserts day into the persisted day set and bumps the
// total only when the day was not already present, so a double check-in
// can never double count.
func (e *Engine) addCheckInDay(day calendar.Day) {
	days := e.loadDays()
	for _, d := range days {
		if d == day {
			return
		}
	}
	days = append(days, day)

	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = d.String()
	}
	e.kv.SetString(store.KeyCheckInDays, strings.Join(parts, ","))
	e.kv.SetInt(store.KeyTotalCheckInDays, e.kv.GetInt(store.KeyTotalCheckInDays)+1)
}

// loadDays parses the persisted day set, skipping malformed entries.
func (e *Engine) loadDays() []calendar.Day {
	raw, _ := e.kv.GetString(store.KeyCheckInDays)
	if raw == "" {
		return nil
	}
	var days []calendar.Day
	for _, part := range strings.Split(raw, ",") {
		if part == "" {
			continue
		}
		d, err := calendar.ParseDay(part)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	return days
}
