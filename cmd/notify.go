package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Inspect and deliver pending notifications",
}

var notifyPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pending notification identifiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		pending, err := a.Backend.ListPending(cmd.Context())
		if err != nil {
			return fmt.Errorf("list pending: %w", err)
		}

		ids := make([]string, 0, len(pending))
		for id := range pending {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

var notifyRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the delivery loop until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		interval, _ := cmd.Flags().GetDuration("interval")

		ctx := cmd.Context()
		a.Activate(ctx)
		a.Scheduler.ScheduleAll(ctx)

		err = a.Backend.RunLoop(ctx, interval)
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	notifyRunCmd.Flags().Duration("interval", time.Minute, "Delivery poll interval")
	notifyCmd.AddCommand(notifyPendingCmd)
	notifyCmd.AddCommand(notifyRunCmd)
}
