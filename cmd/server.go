package cmd

import (
	"github.com/spf13/cobra"

	"wavelib/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the admin panel HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
