package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset streak progress after a relapse",
	Long:  "Clears the current streak, history, milestone watermark, and quote rotation, then reschedules enabled reminders.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		a.Streak.Reset()
		a.Scheduler.ResetProgress(cmd.Context())

		fmt.Println("Progress reset. Today is a fresh start.")
		return nil
	},
}
