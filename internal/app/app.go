// Package app wires the engine's components together. Everything is
// constructed once here and passed by reference; there are no ambient
// singletons.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leafless-app/leafless/internal/calendar"
	"github.com/leafless-app/leafless/internal/notify"
	"github.com/leafless-app/leafless/internal/store"
	"github.com/leafless-app/leafless/internal/streak"
)

// Options configures App construction.
type Options struct {
	// DBPath is the SQLite database location.
	DBPath string

	// ContentPath optionally overrides the embedded content pack.
	ContentPath string

	// Verbose switches the logger to development output.
	Verbose bool

	// Clock and Location default to the system clock and local zone.
	Clock    calendar.Clock
	Location *time.Location
}

// App holds the wired engine components.
type App struct {
	Store     *store.Store
	Settings  *store.Settings
	Streak    *streak.Engine
	Backend   *notify.LocalBackend
	Scheduler *notify.Scheduler
	Log       *zap.Logger
}

// New opens the store and builds the engine.
func New(opts Options) (*App, error) {
	log, err := newLogger(opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = calendar.System()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	pack := notify.DefaultPack()
	if opts.ContentPath != "" {
		pack, err = notify.LoadPack(opts.ContentPath)
		if err != nil {
			return nil, fmt.Errorf("load content pack: %w", err)
		}
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	settings := st.Settings()
	backend := notify.NewLocalBackend(st.DB(), log)
	scheduler := notify.NewScheduler(settings, backend, clock, loc, pack, log)
	scheduler.MigrateLegacyCheckInTime()

	a := &App{
		Store:     st,
		Settings:  settings,
		Streak:    streak.New(settings, clock, loc),
		Backend:   backend,
		Scheduler: scheduler,
		Log:       log,
	}
	a.ensureInstallationID()
	return a, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

// Activate runs the app-active transition: re-validate the streak
// against the calendar, catch up on milestones missed while the
// process was not running, and reinstall any reminder that went
// missing from the backend.
func (a *App) Activate(ctx context.Context) {
	a.Streak.Validate()
	a.Scheduler.ReconcileMissedMilestones(ctx)
	a.Scheduler.RefreshScheduled(ctx)
}

// InstallationID returns this installation's stable identity.
func (a *App) InstallationID() string {
	id, _ := a.Settings.GetString(store.KeyInstallationID)
	return id
}

// ensureInstallationID creates the installation identity on first run.
// Reinstalling over the same store keeps the same logical schedule.
func (a *App) ensureInstallationID() {
	if id, ok := a.Settings.GetString(store.KeyInstallationID); ok && id != "" {
		return
	}
	if err := a.Settings.SetString(store.KeyInstallationID, uuid.NewString()); err != nil {
		a.Log.Warn("persist installation id failed", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
