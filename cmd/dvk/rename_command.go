package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename [dir...]",
		Short: "Rename records and their media to match their titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func() error {
				agg, _, err := ctx.loadArchive(args)
				if err != nil {
					return err
				}
				renamed, err := agg.RenameAll()
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %d of %d records\n", renamed, agg.Size())
				if err != nil {
					return fmt.Errorf("rename records: %w", err)
				}
				return nil
			})
		},
	}
}
