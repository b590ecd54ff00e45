package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/leafless-app/leafless/internal/calendar"
	"github.com/leafless-app/leafless/internal/store"
)

const (
	// motivationWindowDays is the size of the pre-scheduled rotating
	// quote window.
	motivationWindowDays = 30

	// catchUpDelay is how far in the future a missed milestone fires
	// once detected.
	catchUpDelay = time.Hour

	// DefaultCheckInTime is the daily check-in reminder default.
	DefaultCheckInTime = "09:00"

	// legacyCheckInTime is the pre-1.1 default, migrated on startup.
	legacyCheckInTime = "20:00"
)

var (
	milestoneFireTime  = TimeOfDay{Hour: 10}
	motivationFireTime = TimeOfDay{Hour: 14}
)

// Scheduler reconciles the backend's pending notifications with the
// desired set derived from persisted state. Every operation is
// idempotent: re-running recomputes desired state from the store and
// never assumes prior runs accumulated anything.
type Scheduler struct {
	kv      store.KV
	backend Backend
	clock   calendar.Clock
	loc     *time.Location
	pack    *ContentPack
	log     *zap.Logger
}

// NewScheduler wires a scheduler over the given store and backend.
func NewScheduler(kv store.KV, backend Backend, clock calendar.Clock, loc *time.Location, pack *ContentPack, log *zap.Logger) *Scheduler {
	return &Scheduler{kv: kv, backend: backend, clock: clock, loc: loc, pack: pack, log: log}
}

// Enabled reports whether a category is enabled. Daily check-in,
// motivation and milestones default on; craving support defaults off.
func (s *Scheduler) Enabled(cat Category) bool {
	switch cat {
	case CategoryDailyCheckIn:
		return s.kv.GetBool(store.KeyDailyCheckInEnabled, true)
	case CategoryMotivation:
		return s.kv.GetBool(store.KeyMotivationEnabled, true)
	case CategoryMilestones:
		return s.kv.GetBool(store.KeyMilestonesEnabled, true)
	case CategoryCravingSupport:
		return s.kv.GetBool(store.KeyCravingSupportEnabled, false)
	default:
		return false
	}
}

func (s *Scheduler) setEnabled(cat Category, enabled bool) error {
	var key string
	switch cat {
	case CategoryDailyCheckIn:
		key = store.KeyDailyCheckInEnabled
	case CategoryMotivation:
		key = store.KeyMotivationEnabled
	case CategoryMilestones:
		key = store.KeyMilestonesEnabled
	case CategoryCravingSupport:
		key = store.KeyCravingSupportEnabled
	default:
		return fmt.Errorf("unknown category %q", cat)
	}
	return s.kv.SetBool(key, enabled)
}

// ScheduleAll (re)schedules every enabled category. Failures within a
// category are logged and do not block the others.
func (s *Scheduler) ScheduleAll(ctx context.Context) {
	if s.Enabled(CategoryDailyCheckIn) {
		if err := s.scheduleDailyCheckIn(ctx); err != nil {
			s.log.Warn("schedule daily check-in failed", zap.Error(err))
		}
	}
	if s.Enabled(CategoryMilestones) {
		s.scheduleMilestones(ctx)
	}
	if s.Enabled(CategoryMotivation) {
		s.scheduleMotivation(ctx)
	}
	if s.Enabled(CategoryCravingSupport) {
		s.scheduleCravingSupport(ctx)
	}
}

// Toggle enables or disables a category. Enabling schedules it fresh;
// disabling cancels the category's full static identifier set, which is
// a safe superset of whatever is actually pending.
func (s *Scheduler) Toggle(ctx context.Context, cat Category, enabled bool) error {
	if err := s.setEnabled(cat, enabled); err != nil {
		return fmt.Errorf("persist %s toggle: %w", cat, err)
	}

	if !enabled {
		if err := s.backend.Cancel(ctx, s.identifiersFor(cat)); err != nil {
			return fmt.Errorf("cancel %s: %w", cat, err)
		}
		return nil
	}

	switch cat {
	case CategoryDailyCheckIn:
		return s.scheduleDailyCheckIn(ctx)
	case CategoryMilestones:
		s.scheduleMilestones(ctx)
	case CategoryMotivation:
		s.scheduleMotivation(ctx)
	case CategoryCravingSupport:
		s.scheduleCravingSupport(ctx)
	}
	return nil
}

// ReconcileMissedMilestones re-runs milestone scheduling when the
// 1-based days-since-quit count has moved past the watermark. Called on
// every app-active transition so a milestone is never silently skipped
// because the process was suspended across its due time.
func (s *Scheduler) ReconcileMissedMilestones(ctx context.Context) {
	start, ok := s.startDay()
	if !ok {
		return
	}

	today := calendar.DayOf(s.clock.Now().In(s.loc))
	if calendar.DaysSinceStart(start, today, s.loc) > s.kv.GetInt(store.KeyLastScheduledMilestone) {
		s.scheduleMilestones(ctx)
	}
}

// RefreshScheduled re-installs the daily check-in reminder if it has
// gone missing from the backend while the category is enabled.
func (s *Scheduler) RefreshScheduled(ctx context.Context) {
	if !s.Enabled(CategoryDailyCheckIn) {
		return
	}

	pending, err := s.backend.ListPending(ctx)
	if err != nil {
		s.log.Warn("list pending failed", zap.Error(err))
		return
	}
	if _, ok := pending[checkInID]; ok {
		return
	}
	if err := s.scheduleDailyCheckIn(ctx); err != nil {
		s.log.Warn("refresh daily check-in failed", zap.Error(err))
	}
}

// SetCheckInTime updates the daily reminder time and reschedules the
// reminder if the category is enabled.
func (s *Scheduler) SetCheckInTime(ctx context.Context, t TimeOfDay) error {
	if err := s.kv.SetString(store.KeyCheckInTime, t.String()); err != nil {
		return fmt.Errorf("persist check-in time: %w", err)
	}
	if err := s.backend.Cancel(ctx, []string{checkInID}); err != nil {
		return fmt.Errorf("cancel daily check-in: %w", err)
	}
	if s.Enabled(CategoryDailyCheckIn) {
		return s.scheduleDailyCheckIn(ctx)
	}
	return nil
}

// CheckInTime returns the configured daily reminder time, falling back
// to the default when unset or malformed.
func (s *Scheduler) CheckInTime() TimeOfDay {
	raw, ok := s.kv.GetString(store.KeyCheckInTime)
	if !ok || raw == "" {
		raw = DefaultCheckInTime
	}
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		s.log.Warn("invalid stored check-in time, using default", zap.String("value", raw))
		t, _ = ParseTimeOfDay(DefaultCheckInTime)
	}
	return t
}

// MigrateLegacyCheckInTime rewrites the pre-1.1 default reminder time.
func (s *Scheduler) MigrateLegacyCheckInTime() {
	if raw, _ := s.kv.GetString(store.KeyCheckInTime); raw == legacyCheckInTime {
		s.kv.SetString(store.KeyCheckInTime, DefaultCheckInTime)
	}
}

// ResetProgress zeroes the milestone watermark and rotation cursor,
// cancels every one-shot the engine could have installed, and
// reschedules the enabled categories.
func (s *Scheduler) ResetProgress(ctx context.Context) {
	s.kv.SetInt(store.KeyLastScheduledMilestone, 0)
	s.kv.SetInt(store.KeyQuoteIndex, 0)

	var ids []string
	ids = append(ids, s.identifiersFor(CategoryMilestones)...)
	ids = append(ids, s.identifiersFor(CategoryMotivation)...)
	ids = append(ids, s.identifiersFor(CategoryCravingSupport)...)
	if err := s.backend.Cancel(ctx, ids); err != nil {
		s.log.Warn("cancel on reset failed", zap.Error(err))
	}

	s.ScheduleAll(ctx)
}

// Identifier scheme. Identifiers are stable across runs so a reschedule
// replaces rather than duplicates.
const (
	checkInID         = "daily-checkin"
	checkInReminderID = "daily-checkin-reminder"
)

func milestoneID(days int) string { return fmt.Sprintf("milestone-%d", days) }

func motivationID(offset int) string { return fmt.Sprintf("daily-motivation-%d", offset) }

func cravingID(index int) string { return fmt.Sprintf("craving-support-%d", index) }

// identifiersFor returns the full static identifier set a category can
// ever create.
func (s *Scheduler) identifiersFor(cat Category) []string {
	switch cat {
	case CategoryDailyCheckIn:
		return []string{checkInID, checkInReminderID}
	case CategoryMilestones:
		ids := make([]string, len(s.pack.Milestones))
		for i, m := range s.pack.Milestones {
			ids[i] = milestoneID(m.Days)
		}
		return ids
	case CategoryMotivation:
		ids := make([]string, motivationWindowDays)
		for i := range ids {
			ids[i] = motivationID(i)
		}
		return ids
	case CategoryCravingSupport:
		ids := make([]string, len(s.pack.CravingSlots))
		for i := range ids {
			ids[i] = cravingID(i)
		}
		return ids
	default:
		return nil
	}
}

// startDay reads the quit date, treating absent and malformed values as
// "not set" (scheduling silently no-ops without a quit date).
func (s *Scheduler) startDay() (calendar.Day, bool) {
	raw, ok := s.kv.GetString(store.KeyQuitDate)
	if !ok || raw == "" {
		return calendar.Day{}, false
	}
	d, err := calendar.ParseDay(raw)
	if err != nil {
		s.log.Warn("malformed quit date", zap.String("value", raw))
		return calendar.Day{}, false
	}
	return d, true
}

func (s *Scheduler) scheduleDailyCheckIn(ctx context.Context) error {
	err := s.backend.Enqueue(ctx, Request{
		ID:       checkInID,
		Category: CategoryDailyCheckIn,
		Title:    "Daily Check-In",
		Body:     "How are you feeling today? Log your mood and track your progress.",
		FireTime: s.CheckInTime(),
		Repeats:  true,
	})
	if err != nil {
		return fmt.Errorf("enqueue daily check-in: %w", err)
	}
	return nil
}

// scheduleMilestones enqueues every milestone above the watermark. Past
// milestones (the process was not running when they were due) fire one
// hour from now instead of at the historical slot. Enqueues are
// attempted in ascending order and fail independently; the watermark
// only advances across a contiguous run of successes so a failed offset
// is retried by the next reconcile pass.
func (s *Scheduler) scheduleMilestones(ctx context.Context) {
	start, ok := s.startDay()
	if !ok {
		return
	}

	now := s.clock.Now().In(s.loc)
	watermark := s.kv.GetInt(store.KeyLastScheduledMilestone)
	failed := false

	for _, m := range s.pack.Milestones {
		if m.Days <= watermark {
			continue
		}

		fireAt := start.AddDays(m.Days).At(milestoneFireTime.Hour, milestoneFireTime.Minute, s.loc)
		if !fireAt.After(now) {
			// Catch-up: the milestone passed while we were not running.
			fireAt = now.Add(catchUpDelay)
		}

		err := s.backend.Enqueue(ctx, Request{
			ID:       milestoneID(m.Days),
			Category: CategoryMilestones,
			Title:    "🎉 Milestone Achieved!",
			Body:     m.Message,
			FireAt:   fireAt,
		})
		if err != nil {
			s.log.Warn("enqueue milestone failed",
				zap.Int("days", m.Days), zap.Error(err))
			failed = true
			continue
		}
		if !failed {
			if err := s.kv.SetInt(store.KeyLastScheduledMilestone, m.Days); err != nil {
				s.log.Warn("persist milestone watermark failed",
					zap.Int("days", m.Days), zap.Error(err))
			}
		}
	}
}

// scheduleMotivation repopulates the rotating quote window: cancel the
// full window identifier set, enqueue one quote per day, then advance
// the cursor by the window size so the next repopulation continues the
// rotation instead of repeating it.
func (s *Scheduler) scheduleMotivation(ctx context.Context) {
	quotes := s.pack.Quotes
	if len(quotes) == 0 {
		return
	}

	if err := s.backend.Cancel(ctx, s.identifiersFor(CategoryMotivation)); err != nil {
		s.log.Warn("cancel motivation window failed", zap.Error(err))
	}

	today := calendar.DayOf(s.clock.Now().In(s.loc))
	base := s.kv.GetInt(store.KeyQuoteIndex) % len(quotes)

	for offset := 0; offset < motivationWindowDays; offset++ {
		fireAt := today.AddDays(offset).At(motivationFireTime.Hour, motivationFireTime.Minute, s.loc)
		err := s.backend.Enqueue(ctx, Request{
			ID:       motivationID(offset),
			Category: CategoryMotivation,
			Title:    "Daily Motivation",
			Body:     quotes[(base+offset)%len(quotes)],
			FireAt:   fireAt,
		})
		if err != nil {
			// The next repopulation fully replaces the window, so a
			// hole never persists.
			s.log.Warn("enqueue motivation failed",
				zap.Int("offset", offset), zap.Error(err))
		}
	}

	if err := s.kv.SetInt(store.KeyQuoteIndex, (base+motivationWindowDays)%len(quotes)); err != nil {
		s.log.Warn("persist quote cursor failed", zap.Error(err))
	}
}

func (s *Scheduler) scheduleCravingSupport(ctx context.Context) {
	for i, slot := range s.pack.CravingSlots {
		err := s.backend.Enqueue(ctx, Request{
			ID:       cravingID(i),
			Category: CategoryCravingSupport,
			Title:    "Craving Support",
			Body:     slot.Message,
			FireTime: TimeOfDay{Hour: slot.Hour, Minute: slot.Minute},
			Repeats:  true,
		})
		if err != nil {
			s.log.Warn("enqueue craving support failed",
				zap.Int("slot", i), zap.Error(err))
		}
	}
}

// ScheduleCheckInReminder installs a one-shot nudge for today's
// check-in time if it is still ahead of now.
func (s *Scheduler) ScheduleCheckInReminder(ctx context.Context) {
	if !s.Enabled(CategoryDailyCheckIn) {
		return
	}

	now := s.clock.Now().In(s.loc)
	t := s.CheckInTime()
	fireAt := calendar.DayOf(now).At(t.Hour, t.Minute, s.loc)
	if !fireAt.After(now) {
		return
	}

	err := s.backend.Enqueue(ctx, Request{
		ID:       checkInReminderID,
		Category: CategoryDailyCheckIn,
		Title:    "Time for Your Check-In",
		Body:     "Let's see how you're doing today!",
		FireAt:   fireAt,
	})
	if err != nil {
		s.log.Warn("enqueue check-in reminder failed", zap.Error(err))
	}
}
