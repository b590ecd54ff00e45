package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Reconcile and (re)schedule all enabled notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		a.Scheduler.ScheduleAll(ctx)
		a.Scheduler.ReconcileMissedMilestones(ctx)
		a.Scheduler.ScheduleCheckInReminder(ctx)

		pending, err := a.Backend.ListPending(ctx)
		if err != nil {
			return fmt.Errorf("list pending: %w", err)
		}
		fmt.Printf("%d notification(s) scheduled.\n", len(pending))
		return nil
	},
}
