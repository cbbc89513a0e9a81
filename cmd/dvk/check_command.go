package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"dvkarchive/internal/audit"
	"dvkarchive/internal/textutil"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var sameIDs, missingMedia, unlinkedMedia, duplicateMedia bool

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Audit an archive for inconsistencies",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !sameIDs && !missingMedia && !unlinkedMedia && !duplicateMedia {
				return errors.New("choose at least one of --same-ids, --missing-media, --unlinked-media, --duplicate-media")
			}
			agg, roots, err := ctx.loadArchive(args)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			checker := audit.New(agg, logger)
			progress := newProgress(cmd.ErrOrStderr())
			checker.OnProgress(progress.update)

			out := cmd.OutOrStdout()
			base := roots[0]
			if sameIDs {
				progress.start("Identical IDs")
				printPaths(out, "Records sharing an ID", checker.IdenticalIDs(), base)
				progress.finish()
			}
			if missingMedia {
				progress.start("Missing media")
				printPaths(out, "Records with missing media", checker.MissingMedia(), base)
				progress.finish()
			}
			if unlinkedMedia {
				progress.start("Unlinked media")
				printPaths(out, "Files without a record", checker.UnlinkedMedia(), base)
				progress.finish()
			}
			if duplicateMedia {
				progress.start("Duplicate media")
				groups, err := checker.DuplicateMedia()
				progress.finish()
				if err != nil {
					return fmt.Errorf("check duplicate media: %w", err)
				}
				fmt.Fprintf(out, "Duplicate media (%d groups):\n", len(groups))
				for _, group := range groups {
					for _, path := range group {
						fmt.Fprintf(out, "  %s\n", textutil.TruncatePath(path, base))
					}
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sameIDs, "same-ids", false, "List records sharing an ID")
	cmd.Flags().BoolVar(&missingMedia, "missing-media", false, "List records whose media file is missing")
	cmd.Flags().BoolVar(&unlinkedMedia, "unlinked-media", false, "List files no record refers to")
	cmd.Flags().BoolVar(&duplicateMedia, "duplicate-media", false, "List media files with identical content")
	return cmd
}

func printPaths(out io.Writer, heading string, paths []string, base string) {
	fmt.Fprintf(out, "%s (%d):\n", heading, len(paths))
	for _, path := range paths {
		fmt.Fprintf(out, "  %s\n", textutil.TruncatePath(path, base))
	}
	fmt.Fprintln(out)
}

// progress draws a progress bar on terminals and does nothing otherwise.
type progress struct {
	w   io.Writer
	on  bool
	bar *progressbar.ProgressBar
}

func newProgress(w io.Writer) *progress {
	return &progress{w: w, on: isTerminal(w)}
}

func (p *progress) start(label string) {
	if !p.on {
		return
	}
	p.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progress) update(done, total int) {
	if p.bar == nil {
		return
	}
	if p.bar.GetMax() != total {
		p.bar.ChangeMax(total)
	}
	_ = p.bar.Set(done)
}

func (p *progress) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}
