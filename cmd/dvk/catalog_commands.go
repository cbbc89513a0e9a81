package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dvkarchive/internal/catalog"
	"dvkarchive/internal/textutil"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Maintain and query the SQLite record catalog",
	}
	cmd.AddCommand(newCatalogSyncCommand(ctx))
	cmd.AddCommand(newCatalogStatsCommand(ctx))
	cmd.AddCommand(newCatalogSearchCommand(ctx))
	cmd.AddCommand(newCatalogDuplicatesCommand(ctx))
	return cmd
}

func (c *commandContext) withCatalog(fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newCatalogSyncCommand(ctx *commandContext) *cobra.Command {
	var digest bool

	cmd := &cobra.Command{
		Use:   "sync [dir...]",
		Short: "Replace the catalog contents with the records of an archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			agg, roots, err := ctx.loadArchive(args)
			if err != nil {
				return err
			}
			return ctx.withCatalog(func(store *catalog.Store) error {
				result, err := store.Sync(cmd.Context(), agg, catalog.SyncOptions{Roots: roots, Digest: digest})
				if err != nil {
					return fmt.Errorf("sync catalog: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Synced %d records into %s\n", result.Records, store.Path())
				if digest {
					fmt.Fprintf(out, "Hashed %d media files\n", result.Digested)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&digest, "digest", false, "Hash media files for duplicate detection")
	return cmd
}

func newCatalogStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, stats)
				}
				lastSync := "never"
				if stats.LastSyncID != "" {
					lastSync = stats.LastSyncAt.Local().Format("2006-01-02 15:04:05")
				}
				rows := [][]string{
					{"Records", strconv.Itoa(stats.Records)},
					{"Artists", strconv.Itoa(stats.Artists)},
					{"Duplicate IDs", strconv.Itoa(stats.DuplicateIDs)},
					{"In a sequence", strconv.Itoa(stats.Sequenced)},
					{"Last sync", lastSync},
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(out, []column{{header: "Metric"}, {header: "Value", numeric: true}}, rows))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCatalogSearchCommand(ctx *commandContext) *cobra.Command {
	var exact, caseSensitive, asJSON bool

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search cataloged records with a boolean query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := searchOptions(cfg.Search)
			if cmd.Flags().Changed("exact") {
				opts.Exact = exact
			}
			if cmd.Flags().Changed("case-sensitive") {
				opts.CaseSensitive = caseSensitive
			}
			return ctx.withCatalog(func(store *catalog.Store) error {
				entries, err := store.Search(cmd.Context(), args[0], opts)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, entries)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No records found")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{e.Title, strings.Join(e.Artists, ", "), e.ID, textutil.TruncatePath(e.Path, cfg.Paths.ArchiveDir)})
				}
				columns := []column{{header: "Title"}, {header: "Artists"}, {header: "ID"}, {header: "Path"}}
				fmt.Fprintln(out, renderTable(out, columns, rows))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&exact, "exact", false, "Terms must equal a whole value")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match case")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCatalogDuplicatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates",
		Short: "List cataloged records sharing an ID or media content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(store *catalog.Store) error {
				ids, err := store.DuplicateIDs(cmd.Context())
				if err != nil {
					return err
				}
				media, err := store.DuplicateMedia(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printGroups := func(heading string, groups []catalog.DuplicateGroup) {
					fmt.Fprintf(out, "%s (%d groups):\n", heading, len(groups))
					for _, g := range groups {
						fmt.Fprintf(out, "  %s\n", g.Key)
						for _, path := range g.Paths {
							fmt.Fprintf(out, "    %s\n", path)
						}
					}
				}
				printGroups("Shared IDs", ids)
				printGroups("Identical media", media)
				return nil
			})
		},
	}
}
