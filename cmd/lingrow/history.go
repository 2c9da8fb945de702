package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mrdaiking/lingrow/internal/cli"
)

func newHistoryCommand() *cobra.Command {
	var userID string
	var opts cli.HistoryOptions

	command := &cobra.Command{
		Use:   "history",
		Short: "List practice history, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, _, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			return cli.RunHistoryList(cmd.Context(), store, os.Stdout, userID, opts)
		},
	}
	command.Flags().StringVar(&userID, "user", "", "user id")
	command.Flags().StringVar(&opts.Language, "language", "", "filter by practice language")
	command.Flags().IntVar(&opts.PageSize, "page-size", 0, "records per page (default 10)")
	command.Flags().IntVar(&opts.Page, "page", 0, "zero-based page number")
	if err := command.MarkFlagRequired("user"); err != nil {
		panic(err)
	}
	return command
}
