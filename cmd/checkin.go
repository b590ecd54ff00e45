package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Record today's check-in",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		a.Activate(ctx)

		before := a.Streak.Snapshot()
		snap := a.Streak.RecordCheckIn()

		if before.HasCheckedInToday {
			fmt.Println("Already checked in today.")
		} else {
			fmt.Printf("Checked in! Current streak: %d day(s).\n", snap.CurrentStreak)
			if snap.CurrentStreak == snap.LongestStreak && snap.CurrentStreak > 1 {
				fmt.Println("That's your longest streak yet.")
			}
		}
		return nil
	},
}
