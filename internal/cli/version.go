package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-ephemeris/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ls-ephemeris %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
