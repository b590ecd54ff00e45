package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/leafless-app/leafless/internal/app"
	"github.com/leafless-app/leafless/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "leafless",
	Short: "Clean-streak tracker and reminder scheduler",
	Long:  "Leafless — track your cannabis-free streak, celebrate milestones, and keep daily reminders scheduled.",
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEAFLESS_DB env var)")
	rootCmd.PersistentFlags().String("content", "", "Path to a custom notification content pack (JSON)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(quitDateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then LEAFLESS_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openApp builds the wired engine for a command invocation.
func openApp(cmd *cobra.Command) (*app.App, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	contentPath, _ := cmd.Flags().GetString("content")
	verbose, _ := cmd.Flags().GetBool("verbose")

	return app.New(app.Options{
		DBPath:      dbPath,
		ContentPath: contentPath,
		Verbose:     verbose,
	})
}
