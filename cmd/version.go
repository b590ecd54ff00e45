package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the leafless version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("leafless %s\n", version)
	},
}
