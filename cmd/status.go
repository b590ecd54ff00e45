package cmd

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/leafless-app/leafless/internal/calendar"
	"github.com/leafless-app/leafless/internal/notify"
	"github.com/leafless-app/leafless/internal/store"
)

var (
	statusTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#22C55E"))

	statusDim = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94A3B8"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show streak and notification status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		a.Activate(ctx)
		snap := a.Streak.Snapshot()

		var b strings.Builder
		fmt.Fprintln(&b, statusTitle.Render("Leafless"))
		fmt.Fprintf(&b, "Current streak:  %d day(s)\n", snap.CurrentStreak)
		fmt.Fprintf(&b, "Longest streak:  %d day(s)\n", snap.LongestStreak)
		fmt.Fprintf(&b, "Total check-ins: %d day(s)\n", snap.TotalCheckInDays)
		if snap.HasCheckedInToday {
			fmt.Fprintln(&b, "Checked in today: yes")
		} else {
			fmt.Fprintln(&b, "Checked in today: not yet")
		}

		if raw, ok := a.Settings.GetString(store.KeyQuitDate); ok && raw != "" {
			if start, err := calendar.ParseDay(raw); err == nil {
				today := calendar.DayOf(time.Now())
				days := calendar.DaysSinceStart(start, today, time.Local)
				fmt.Fprintf(&b, "Quit date:       %s (day %d)\n", start, days)
			}
		} else {
			fmt.Fprintln(&b, statusDim.Render("Quit date not set — run `leafless quitdate YYYY-MM-DD`"))
		}

		var enabled []string
		for _, cat := range notify.Categories() {
			if a.Scheduler.Enabled(cat) {
				enabled = append(enabled, string(cat))
			}
		}
		fmt.Fprintf(&b, "Notifications:   %s\n", strings.Join(enabled, ", "))
		fmt.Fprintf(&b, "Check-in time:   %s\n", a.Scheduler.CheckInTime())
		fmt.Fprintln(&b, statusDim.Render("Installation: "+a.InstallationID()))

		fmt.Print(b.String())
		return nil
	},
}
