package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mrdaiking/lingrow/internal/cli"
)

func newDashboardCommand() *cobra.Command {
	var userID string
	var windowDays int

	command := &cobra.Command{
		Use:   "dashboard",
		Short: "Show streak, level, focus areas and practice calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, clock, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			return cli.RunDashboardReport(cmd.Context(), store, clock, os.Stdout, userID, windowDays)
		},
	}
	command.Flags().StringVar(&userID, "user", "", "user id")
	command.Flags().IntVar(&windowDays, "days", 0, "calendar window in days (default 30)")
	if err := command.MarkFlagRequired("user"); err != nil {
		panic(err)
	}
	return command
}
