package main

import (
	"fmt"
	"path/filepath"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"

	"dvkarchive/internal/archive"
)

func newTreeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [dir]",
		Short: "Show the archive directories with their record counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agg, roots, err := ctx.loadArchive(args)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderArchiveTree(agg, roots[0]))
			return nil
		},
	}
}

// renderArchiveTree draws the collections of agg below root. Directories
// are visited in discovery order, so parents precede their children.
func renderArchiveTree(agg *archive.Aggregator, root string) string {
	label := root
	for _, col := range agg.Collections() {
		if col.Dir() == root {
			label = fmt.Sprintf("%s (%s)", root, countLabel(col.Size()))
		}
	}
	tree := gotree.New(label)
	nodes := map[string]gotree.Tree{root: tree}

	var node func(dir string) gotree.Tree
	node = func(dir string) gotree.Tree {
		if n, ok := nodes[dir]; ok {
			return n
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return tree
		}
		n := node(parent).Add(filepath.Base(dir))
		nodes[dir] = n
		return n
	}

	for _, col := range agg.Collections() {
		if col.Dir() == root {
			continue
		}
		parent := node(filepath.Dir(col.Dir()))
		nodes[col.Dir()] = parent.Add(fmt.Sprintf("%s (%s)", filepath.Base(col.Dir()), countLabel(col.Size())))
	}
	return tree.Print()
}

func countLabel(n int) string {
	if n == 1 {
		return "1 record"
	}
	return fmt.Sprintf("%d records", n)
}
