package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wavelib/config"
	"wavelib/core/library"
	"wavelib/db"
	"wavelib/logger"
	"wavelib/repository"
)

var disabledCmd = &cobra.Command{
	Use:   "disabled",
	Short: "List unverified database rows whose file still exists on disk",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		if err := db.ConnectDB(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer db.CloseDB()

		known, err := repository.NewMySQLSongRepository().GetSongFilenames()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		disabled := library.Disabled(known)
		for _, path := range disabled {
			fmt.Println(path)
		}
		fmt.Printf("%d disabled files\n", len(disabled))
	},
}

func init() {
	rootCmd.AddCommand(disabledCmd)
}
