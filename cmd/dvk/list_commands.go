package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dvkarchive/internal/archive"
	"dvkarchive/internal/config"
	"dvkarchive/internal/dvk"
	"dvkarchive/internal/query"
)

// sortFlags carries the ordering flags shared by commands that address
// records by index.
type sortFlags struct {
	sort         string
	groupArtists bool
}

func (f *sortFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.sort, "sort", "s", "", "Sort order: a (title), t (time), r (rating), v (views)")
	cmd.Flags().BoolVar(&f.groupArtists, "group-artists", false, "Group records by artist before sorting")
}

func (f *sortFlags) apply(cmd *cobra.Command, cfg *config.Config, agg *archive.Aggregator) {
	code := cfg.Archive.DefaultSort
	if cmd.Flags().Changed("sort") {
		code = f.sort
	}
	group := cfg.Archive.GroupArtists
	if cmd.Flags().Changed("group-artists") {
		group = f.groupArtists
	}
	agg.Sort(archive.ParseSortKind(code), group)
}

type recordView struct {
	Index    int      `json:"index"`
	Path     string   `json:"path"`
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Artists  []string `json:"artists"`
	Time     string   `json:"time"`
	Rating   int      `json:"rating"`
	Views    int      `json:"views"`
	Sequence string   `json:"sequence,omitempty"`
}

func newRecordView(index int, r *dvk.Record) recordView {
	return recordView{
		Index:    index,
		Path:     r.Path(),
		ID:       r.ID().String(),
		Title:    r.Title(),
		Artists:  r.Artists(),
		Time:     r.Time(),
		Rating:   r.Rating(),
		Views:    r.Views(),
		Sequence: r.SequenceTitle(),
	}
}

func printRecords(cmd *cobra.Command, agg *archive.Aggregator, indices []int, asJSON bool) error {
	views := make([]recordView, 0, len(indices))
	for _, i := range indices {
		views = append(views, newRecordView(i, agg.Get(i)))
	}
	if asJSON {
		return writeJSON(cmd, views)
	}

	out := cmd.OutOrStdout()
	if len(views) == 0 {
		fmt.Fprintln(out, "No records found")
		return nil
	}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			strconv.Itoa(v.Index),
			v.Title,
			strings.Join(v.Artists, ", "),
			v.Time,
			strconv.Itoa(v.Rating),
			strconv.Itoa(v.Views),
			v.ID,
		})
	}
	columns := []column{
		{header: "#", numeric: true},
		{header: "Title"},
		{header: "Artists"},
		{header: "Time"},
		{header: "Rating", numeric: true},
		{header: "Views", numeric: true},
		{header: "ID"},
	}
	fmt.Fprintln(out, renderTable(out, columns, rows))
	return nil
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var order sortFlags
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [dir...]",
		Short: "List archive records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			agg, _, err := ctx.loadArchive(args)
			if err != nil {
				return err
			}
			order.apply(cmd, cfg, agg)

			count := agg.Size()
			if limit > 0 {
				count = min(count, limit)
			}
			indices := make([]int, count)
			for i := range indices {
				indices[i] = i
			}
			return printRecords(cmd, agg, indices, asJSON)
		},
	}
	order.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many records (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var order sortFlags
	var exact, caseSensitive, asJSON bool
	var fields []string

	cmd := &cobra.Command{
		Use:   "search QUERY [dir...]",
		Short: "Find records matching a boolean query",
		Long: `Find records matching a boolean query.

Terms are combined with & (and), | (or) and ! (not), grouped with
parentheses, and quoted to keep operators literal. Adjacent terms are
joined with and.`,
		Args: cobra.MinimumNArgs(1),
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
			if cmd.Flags().Changed("fields") {
				opts.Fields = fields
			}

			agg, _, err := ctx.loadArchive(args[1:])
			if err != nil {
				return err
			}
			order.apply(cmd, cfg, agg)
			matcher := query.NewMatcher(args[0], opts)
			return printRecords(cmd, agg, matcher.Filter(agg), asJSON)
		},
	}
	order.register(cmd)
	cmd.Flags().BoolVar(&exact, "exact", false, "Terms must equal a whole field value")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match case")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Fields to search: "+strings.Join(config.SearchFields, ", "))
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// searchOptions maps the [search] section onto matcher options.
func searchOptions(cfg config.Search) query.Options {
	return query.Options{
		Exact:         cfg.Exact,
		CaseSensitive: cfg.CaseSensitive,
		Fields:        slices.Clone(cfg.Fields),
	}
}
