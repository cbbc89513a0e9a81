package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dvkarchive/internal/archive"
)

var errNoDefaultOrder = errors.New("cannot derive a sequence order: records would be visited twice (nested archive directories?)")

func newSequenceCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Inspect and link record sequences",
	}
	cmd.AddCommand(newSequenceShowCommand(ctx))
	cmd.AddCommand(newSequenceSetCommand(ctx))
	return cmd
}

func newSequenceShowCommand(ctx *commandContext) *cobra.Command {
	var order sortFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show INDEX [dir...]",
		Short: "Show the sequence containing the record at INDEX",
		Long: `Show the sequence containing the record at INDEX.

INDEX is the position printed by "dvk list" with the same sort flags.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse index %q: %w", args[0], err)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			agg, _, err := ctx.loadArchive(args[1:])
			if err != nil {
				return err
			}
			order.apply(cmd, cfg, agg)
			if index < 0 || index >= agg.Size() {
				return fmt.Errorf("index %d out of range (archive has %d records)", index, agg.Size())
			}

			members := agg.Sequence(index)
			if asJSON {
				return printRecords(cmd, agg, members, true)
			}
			if title := agg.Get(index).SequenceTitle(); title != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Sequence: %s\n", title)
			}
			return printRecords(cmd, agg, members, false)
		},
	}
	order.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newSequenceSetCommand(ctx *commandContext) *cobra.Command {
	var title string
	var bySection, interactive bool
	var sectionTitles []string

	cmd := &cobra.Command{
		Use:   "set [dir]",
		Short: "Link every record of an archive into one sequence",
		Long: `Link every record of an archive into one sequence.

Records are ordered directory by directory, directories and records both
sorted by title. With --by-section every directory becomes a section.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title = strings.TrimSpace(title)
			if title == "" && interactive {
				var err error
				if title, err = promptTitle(); err != nil {
					return err
				}
			}
			if title == "" {
				return errors.New("a sequence title is required (use --title)")
			}

			return ctx.withLock(func() error {
				agg, _, err := ctx.loadArchive(args)
				if err != nil {
					return err
				}
				records := agg.DefaultSequenceOrder()
				if records == nil {
					return errNoDefaultOrder
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No records found")
					return nil
				}

				if bySection {
					titles := sectionTitles
					if dirs := archive.SectionDirs(records); interactive && len(dirs) > 1 {
						if titles, err = promptSectionTitles(dirs); err != nil {
							return err
						}
					}
					err = archive.SetSequenceBySection(records, title, titles)
				} else {
					err = archive.SetSequence(records, title)
				}
				if err != nil {
					return fmt.Errorf("set sequence: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Linked %d records as %q\n", len(records), title)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Sequence title")
	cmd.Flags().BoolVar(&bySection, "by-section", false, "Treat each directory as a section")
	cmd.Flags().StringSliceVar(&sectionTitles, "section-titles", nil, "Section titles, one per directory in order")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for titles")
	return cmd
}
