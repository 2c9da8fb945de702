package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mrdaiking/lingrow/internal/datasync"
)

func newImportCommand() *cobra.Command {
	var opts datasync.ImportOptions

	command := &cobra.Command{
		Use:   "import <export-file>",
		Short: "Import a practice history export (YAML) into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, _, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			importer := datasync.NewImporter(store, os.Stdout)
			_, err = importer.ImportFile(cmd.Context(), args[0], opts)
			return err
		},
	}
	command.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report without writing")
	command.Flags().StringVar(&opts.DefaultUserID, "user", "", "user id for records missing one")
	return command
}
