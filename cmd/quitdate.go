package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leafless-app/leafless/internal/calendar"
	"github.com/leafless-app/leafless/internal/store"
)

var quitDateCmd = &cobra.Command{
	Use:   "quitdate [YYYY-MM-DD]",
	Short: "Show or set the quit date",
	Long:  "Without an argument, prints the recorded quit date. With one, sets it and reschedules milestone notifications from the new start.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			raw, ok := a.Settings.GetString(store.KeyQuitDate)
			if !ok || raw == "" {
				fmt.Println("Quit date not set.")
				return nil
			}
			start, err := calendar.ParseDay(raw)
			if err != nil {
				return fmt.Errorf("stored quit date %q is malformed", raw)
			}
			today := calendar.DayOf(time.Now())
			fmt.Printf("Quit date: %s (day %d)\n", start, calendar.DaysSinceStart(start, today, time.Local))
			return nil
		}

		day, err := calendar.ParseDay(args[0])
		if err != nil {
			return fmt.Errorf("expected YYYY-MM-DD, got %q", args[0])
		}
		if err := a.Settings.SetString(store.KeyQuitDate, day.String()); err != nil {
			return fmt.Errorf("persist quit date: %w", err)
		}

		ctx := cmd.Context()
		a.Scheduler.ScheduleAll(ctx)
		a.Scheduler.ReconcileMissedMilestones(ctx)

		fmt.Printf("Quit date set to %s.\n", day)
		return nil
	},
}
