package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrdaiking/lingrow/internal/cli"
)

func newReviewCommand() *cobra.Command {
	reviewCommand := &cobra.Command{
		Use:   "review",
		Short: "Spaced repetition queue",
	}
	reviewCommand.AddCommand(newReviewDueCommand(), newReviewMarkCommand())
	return reviewCommand
}

func newReviewDueCommand() *cobra.Command {
	var userID string
	var limit int

	command := &cobra.Command{
		Use:   "due",
		Short: "List records due for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, clock, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			return cli.RunReviewDue(cmd.Context(), store, clock, os.Stdout, userID, limit)
		},
	}
	command.Flags().StringVar(&userID, "user", "", "user id")
	command.Flags().IntVar(&limit, "limit", 0, "batch size (default 5)")
	if err := command.MarkFlagRequired("user"); err != nil {
		panic(err)
	}
	return command
}

func newReviewMarkCommand() *cobra.Command {
	var reviewCount int

	command := &cobra.Command{
		Use:   "mark <record-id>",
		Short: "Mark a record as reviewed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recordID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("record id must be an integer: %w", err)
			}

			db, store, clock, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			return cli.RunMarkReviewed(cmd.Context(), store, clock, os.Stdout, recordID, reviewCount)
		},
	}
	command.Flags().IntVar(&reviewCount, "count", 0, "current review count of the record")
	return command
}
