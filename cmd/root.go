package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wavelib/server"
)

var rootCmd = &cobra.Command{
	Use:   "wavelib",
	Short: "wavelib is the staff admin panel for the station's music library.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
