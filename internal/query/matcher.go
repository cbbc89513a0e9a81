package query

import "dvkarchive/internal/dvk"

// DefaultFields are searched when Options names no fields.
var DefaultFields = []string{"title", "artists", "web_tags", "user_tags"}

// Options control how a Matcher compares records.
type Options struct {
	Exact         bool
	CaseSensitive bool
	Fields        []string
}

// Matcher tests records against a compiled query.
type Matcher struct {
	tree   *Node
	fields []string
	exact  bool
	fold   bool
}

// NewMatcher compiles query with opts. Unknown field names are ignored; an
// empty field list searches DefaultFields.
func NewMatcher(query string, opts Options) *Matcher {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}
	tree := Parse(query)
	if !opts.CaseSensitive {
		tree = Lower(tree)
	}
	return &Matcher{
		tree:   tree,
		fields: fields,
		exact:  opts.Exact,
		fold:   !opts.CaseSensitive,
	}
}

// Tree returns the compiled query, nil when the query was empty or invalid.
func (m *Matcher) Tree() *Node { return m.tree }

// Match reports whether r satisfies the query.
//
// Substring queries see the selected fields joined by newlines, so terms may
// be satisfied by different fields. In exact mode each operand must equal one
// value: the title, the id, the description, or a single artist or tag.
func (m *Matcher) Match(r *dvk.Record) bool {
	if r == nil || m.tree == nil {
		return false
	}
	return MatchValues(m.tree, m.values(r), m.exact)
}

func (m *Matcher) values(r *dvk.Record) []string {
	var values []string
	for _, field := range m.fields {
		switch field {
		case "title":
			values = append(values, r.Title())
		case "artists":
			values = append(values, r.Artists()...)
		case "web_tags":
			values = append(values, r.WebTags()...)
		case "user_tags":
			values = append(values, r.UserTags()...)
		case "description":
			values = append(values, r.PlainDescription())
		case "id":
			values = append(values, r.ID().String())
		}
	}
	if m.fold {
		for i, value := range values {
			values[i] = lower(value)
		}
	}
	return values
}

// Source is an indexed set of records, such as an archive.Aggregator.
type Source interface {
	Size() int
	Get(int) *dvk.Record
}

// Filter returns the indices of the records in src that match.
func (m *Matcher) Filter(src Source) []int {
	var out []int
	for i := range src.Size() {
		if m.Match(src.Get(i)) {
			out = append(out, i)
		}
	}
	return out
}
