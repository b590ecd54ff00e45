package streak

import (
	"sync"
	"testing"
	"time"

	"github.com/leafless-app/leafless/internal/calendar"
	"github.com/leafless-app/leafless/internal/store"
)

func newTestEngine(t *testing.T, start time.Time) (*Engine, *calendar.FakeClock, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	clock := calendar.NewFakeClock(start)
	return New(kv, clock, time.UTC), clock, kv
}

var testStart = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func TestConsecutiveCheckIns(t *testing.T) {
	e, clock, _ := newTestEngine(t, testStart)

	for day := 1; day <= 10; day++ {
		snap := e.RecordCheckIn()
		if snap.CurrentStreak != day {
			t.Fatalf("day %d: CurrentStreak = %d, want %d", day, snap.CurrentStreak, day)
		}
		if snap.LongestStreak < snap.CurrentStreak {
			t.Fatalf("day %d: LongestStreak %d < CurrentStreak %d", day, snap.LongestStreak, snap.CurrentStreak)
		}
		if !snap.HasCheckedInToday {
			t.Fatalf("day %d: HasCheckedInToday = false after check-in", day)
		}
		clock.Advance(24 * time.Hour)
	}
}

func TestCheckInIdempotentPerDay(t *testing.T) {
	e, clock, _ := newTestEngine(t, testStart)

	first := e.RecordCheckIn()
	clock.Advance(5 * time.Hour) // same calendar day
	second := e.RecordCheckIn()

	if second != first {
		t.Errorf("second same-day check-in changed snapshot: %+v -> %+v", first, second)
	}
	if got := len(e.CheckInDays()); got != 1 {
		t.Errorf("CheckInDays has %d entries, want 1", got)
	}
}

func TestGapResetsStreakToOne(t *testing.T) {
	for _, gap := range []int{2, 3, 10, 400} {
		e, clock, _ := newTestEngine(t, testStart)

		e.RecordCheckIn()
		clock.Advance(24 * time.Hour)
		e.RecordCheckIn() // streak 2

		clock.Advance(time.Duration(gap) * 24 * time.Hour)
		snap := e.RecordCheckIn()

		if snap.CurrentStreak != 1 {
			t.Errorf("gap %d: CurrentStreak = %d, want 1", gap, snap.CurrentStreak)
		}
		if snap.LongestStreak != 2 {
			t.Errorf("gap %d: LongestStreak = %d, want 2", gap, snap.LongestStreak)
		}
	}
}

func TestValidateKillsDeadStreak(t *testing.T) {
	e, clock, _ := newTestEngine(t, testStart)

	e.RecordCheckIn()
	clock.Advance(24 * time.Hour)
	e.RecordCheckIn()

	clock.Advance(3 * 24 * time.Hour)
	e.Validate()

	snap := e.Snapshot()
	if snap.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d after dead-streak validate, want 0", snap.CurrentStreak)
	}
	if snap.LongestStreak != 2 {
		t.Errorf("LongestStreak = %d, want 2 (validate must not touch it)", snap.LongestStreak)
	}
	if snap.TotalCheckInDays != 2 {
		t.Errorf("TotalCheckInDays = %d, want 2 (validate must not touch it)", snap.TotalCheckInDays)
	}
	if got := len(e.CheckInDays()); got != 2 {
		t.Errorf("CheckInDays has %d entries, want 2", got)
	}
}

func TestValidateNeverIncreasesStreak(t *testing.T) {
	e, clock, _ := newTestEngine(t, testStart)

	e.RecordCheckIn()
	before := e.Snapshot()

	// Same day and next day: both within one day, validate is a no-op.
	e.Validate()
	if got := e.Snapshot().CurrentStreak; got != before.CurrentStreak {
		t.Errorf("same-day validate changed streak: %d -> %d", before.CurrentStreak, got)
	}

	clock.Advance(24 * time.Hour)
	e.Validate()
	if got := e.Snapshot().CurrentStreak; got != before.CurrentStreak {
		t.Errorf("next-day validate changed streak: %d -> %d", before.CurrentStreak, got)
	}
}

func TestValidateWithoutHistoryIsNoop(t *testing.T) {
	e, _, kv := newTestEngine(t, testStart)

	e.Validate()
	if got := e.Snapshot().CurrentStreak; got != 0 {
		t.Errorf("CurrentStreak = %d, want 0", got)
	}

	// Malformed stored day collapses the streak but keeps history.
	kv.SetString(store.KeyLastCheckInDay, "garbage")
	kv.SetInt(store.KeyCheckInStreak, 5)
	e.Validate()
	if got := kv.GetInt(store.KeyCheckInStreak); got != 0 {
		t.Errorf("CurrentStreak = %d after malformed-day validate, want 0", got)
	}
}

func TestResumeAfterGapThenCheckIn(t *testing.T) {
	e, clock, _ := newTestEngine(t, testStart)

	// Two check-ins 3 calendar days apart.
	e.RecordCheckIn()
	clock.Advance(3 * 24 * time.Hour)
	snap := e.RecordCheckIn()

	if snap.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", snap.CurrentStreak)
	}
	if snap.LongestStreak != 1 {
		t.Errorf("LongestStreak = %d, want 1", snap.LongestStreak)
	}
	if snap.TotalCheckInDays != 2 {
		t.Errorf("TotalCheckInDays = %d, want 2", snap.TotalCheckInDays)
	}
}

func TestReset(t *testing.T) {
	e, clock, _ := newTestEngine(t, testStart)

	for i := 0; i < 4; i++ {
		e.RecordCheckIn()
		clock.Advance(24 * time.Hour)
	}
	e.Reset()

	snap := e.Snapshot()
	want := Snapshot{}
	if snap != want {
		t.Errorf("Snapshot after reset = %+v, want zero", snap)
	}
	if got := len(e.CheckInDays()); got != 0 {
		t.Errorf("CheckInDays has %d entries after reset, want 0", got)
	}

	// First check-in after a reset starts over at 1.
	if got := e.RecordCheckIn().CurrentStreak; got != 1 {
		t.Errorf("CurrentStreak after reset+check-in = %d, want 1", got)
	}
}

func TestMalformedLastDayRecoversOnCheckIn(t *testing.T) {
	e, _, kv := newTestEngine(t, testStart)

	kv.SetString(store.KeyLastCheckInDay, "not-a-date")
	kv.SetInt(store.KeyLongestStreak, 9)

	snap := e.RecordCheckIn()
	if snap.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", snap.CurrentStreak)
	}
	if snap.LongestStreak != 9 {
		t.Errorf("LongestStreak = %d, want 9 (preserved)", snap.LongestStreak)
	}
}

func TestCheckInDaysSortedAscending(t *testing.T) {
	e, clock, _ := newTestEngine(t, testStart)

	e.RecordCheckIn()
	clock.Advance(24 * time.Hour)
	e.RecordCheckIn()
	clock.Advance(48 * time.Hour)
	e.RecordCheckIn()

	days := e.CheckInDays()
	want := []string{"2025-06-01", "2025-06-02", "2025-06-04"}
	if len(days) != len(want) {
		t.Fatalf("got %d days, want %d", len(days), len(want))
	}
	for i, d := range days {
		if d.String() != want[i] {
			t.Errorf("days[%d] = %s, want %s", i, d, want[i])
		}
	}
}

func TestConcurrentWritersAndReaders(t *testing.T) {
	e, _, _ := newTestEngine(t, testStart)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.RecordCheckIn()
			e.Validate()
		}()
		go func() {
			defer wg.Done()
			snap := e.Snapshot()
			// A torn view would show a streak without a longest to match.
			if snap.CurrentStreak > snap.LongestStreak {
				t.Errorf("torn snapshot: current %d > longest %d", snap.CurrentStreak, snap.LongestStreak)
			}
		}()
	}
	wg.Wait()

	snap := e.Snapshot()
	if snap.CurrentStreak != 1 || snap.TotalCheckInDays != 1 {
		t.Errorf("after concurrent same-day check-ins: %+v, want streak 1, total 1", snap)
	}
}
