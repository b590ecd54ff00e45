package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leafless-app/leafless/internal/notify"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage notification settings",
}

var settingsTimeCmd = &cobra.Command{
	Use:   "time HH:MM",
	Short: "Set the daily check-in reminder time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := notify.ParseTimeOfDay(args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Scheduler.SetCheckInTime(cmd.Context(), t); err != nil {
			return err
		}
		fmt.Printf("Daily check-in reminder set to %s.\n", t)
		return nil
	},
}

var settingsEnableCmd = &cobra.Command{
	Use:       "enable CATEGORY",
	Short:     "Enable a notification category",
	Args:      cobra.ExactArgs(1),
	ValidArgs: categoryNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleCategory(cmd, args[0], true)
	},
}

var settingsDisableCmd = &cobra.Command{
	Use:       "disable CATEGORY",
	Short:     "Disable a notification category",
	Args:      cobra.ExactArgs(1),
	ValidArgs: categoryNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleCategory(cmd, args[0], false)
	},
}

func toggleCategory(cmd *cobra.Command, name string, enabled bool) error {
	cat := notify.Category(name)
	known := false
	for _, c := range notify.Categories() {
		if c == cat {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown category %q (one of: %v)", name, categoryNames())
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Scheduler.Toggle(cmd.Context(), cat, enabled); err != nil {
		return err
	}
	if enabled {
		fmt.Printf("%s enabled.\n", cat)
	} else {
		fmt.Printf("%s disabled.\n", cat)
	}
	return nil
}

func categoryNames() []string {
	cats := notify.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return names
}

func init() {
	settingsCmd.AddCommand(settingsTimeCmd)
	settingsCmd.AddCommand(settingsEnableCmd)
	settingsCmd.AddCommand(settingsDisableCmd)
}
