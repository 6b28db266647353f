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

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List files in the library tree the database does not know about",
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
		orphans, err := library.Orphans(cfg.LibraryRoot, known)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, path := range orphans {
			fmt.Println(path)
		}
		fmt.Printf("%d orphaned files\n", len(orphans))
	},
}

func init() {
	rootCmd.AddCommand(orphansCmd)
}
