package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dvkarchive/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var order sortFlags
	var output, level string
	var compress bool

	cmd := &cobra.Command{
		Use:   "export [dir...]",
		Short: "Write every record as a JSON array",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := export.OptionsFromConfig(cfg.Export)
			if cmd.Flags().Changed("zstd") {
				opts.Compress = compress
			}
			if cmd.Flags().Changed("level") {
				opts.Level = strings.ToLower(strings.TrimSpace(level))
			}

			agg, _, err := ctx.loadArchive(args)
			if err != nil {
				return err
			}
			order.apply(cmd, cfg, agg)

			target := strings.TrimSpace(output)
			if target == "" || target == "-" {
				_, err := export.Write(cmd.OutOrStdout(), agg, opts)
				return err
			}
			n, err := export.WriteFile(target, agg, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records to %s\n", n, target)
			return nil
		},
	}
	order.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&compress, "zstd", false, "Compress the export with zstd")
	cmd.Flags().StringVar(&level, "level", "", "Compression level: fastest, default, better, best")
	return cmd
}
