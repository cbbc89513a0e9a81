package archive

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"dvkarchive/internal/dvk"
	"dvkarchive/internal/logging"
	"dvkarchive/internal/textutil"
)

// ErrSectionTitles is returned when the number of section titles does not
// match the number of section directories.
var ErrSectionTitles = errors.New("section title count mismatch")

// SetSequence links records, in order, into a single sequence and writes
// each one. The first record is marked first and the last marked last. The
// title is stored only when the sequence has more than one member. Every
// record is attempted; the first write error is returned.
func SetSequence(records []*dvk.Record, title string) error {
	total := len(records)
	var firstErr error
	for i, r := range records {
		linkRecord(records, i, title)
		if total > 1 {
			r.SetSequencePosition(i+1, total)
		} else {
			r.SetSequencePosition(0, 0)
		}
		if err := r.Write(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("write sequence member %d: %w", i+1, err)
		}
	}
	return firstErr
}

func linkRecord(records []*dvk.Record, i int, title string) {
	r := records[i]
	if i == 0 {
		r.SetFirst()
	} else {
		r.SetPreviousIDs([]string{records[i-1].ID().String()})
	}
	if i == len(records)-1 {
		r.SetLast()
	} else {
		r.SetNextIDs([]string{records[i+1].ID().String()})
	}
	if len(records) > 1 {
		r.SetSequenceTitle(title)
	} else {
		r.SetSequenceTitle("")
	}
}

// SetSequence links the records at the given sorted indices.
func (a *Aggregator) SetSequence(indices []int, title string) error {
	records := make([]*dvk.Record, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= a.Size() {
			return fmt.Errorf("set sequence: index %d out of range", i)
		}
		records = append(records, a.Get(i))
	}
	return SetSequence(records, title)
}

// Sequence reconstructs the sequence containing the record at sorted index
// start by following the first next and previous links. A link to an unknown
// identity, or to a record already collected, ends the walk in that
// direction, so no index appears twice. The result lists sorted indices from
// the first member to the last, or is nil when start is out of range.
func (a *Aggregator) Sequence(start int) []int {
	if start < 0 || start >= a.Size() {
		return nil
	}
	visited := map[int]bool{start: true}
	forward := a.walk(start, visited, (*dvk.Record).NextIDs, (*dvk.Record).IsLast)
	backward := a.walk(start, visited, (*dvk.Record).PreviousIDs, (*dvk.Record).IsFirst)
	slices.Reverse(backward)

	out := make([]int, 0, len(backward)+1+len(forward))
	out = append(out, backward...)
	out = append(out, start)
	return append(out, forward...)
}

func (a *Aggregator) walk(start int, visited map[int]bool, links func(*dvk.Record) []dvk.Identity, boundary func(*dvk.Record) bool) []int {
	var out []int
	current := a.Get(start)
	for !boundary(current) {
		ids := links(current)
		if len(ids) == 0 {
			break
		}
		next := a.IndexOf(ids[0])
		if next == -1 || visited[next] {
			break
		}
		visited[next] = true
		out = append(out, next)
		current = a.Get(next)
	}
	return out
}

// DefaultSequenceOrder returns the records an automatic sequence would link:
// the loaded directories holding records, in alphanumeric order, each
// contributing its own records and those of its subdirectories sorted by
// title. When such directories nest, records would appear twice and the
// result is nil.
func (a *Aggregator) DefaultSequenceOrder() []*dvk.Record {
	var dirs []string
	for _, c := range a.collections {
		if c.Size() > 0 {
			dirs = append(dirs, c.Dir())
		}
	}
	slices.SortStableFunc(dirs, textutil.CompareAlphanum)

	var records []*dvk.Record
	seen := make(map[string]bool)
	for _, dir := range dirs {
		sub := &Aggregator{logger: a.logger}
		sub.Load(dir)
		sub.Sort(SortAlpha, false)
		for i := range sub.Size() {
			r := sub.Get(i)
			if seen[r.Path()] {
				a.logger.Info("default sequence order unavailable",
					logging.Args(logging.DecisionAttrs("sequence_order", "rejected", "nested record directories")...)...,
				)
				return nil
			}
			seen[r.Path()] = true
			records = append(records, r)
		}
	}
	return records
}

// SectionDirs returns the parent directories of records in order of first
// appearance. Each directory forms one section of a sequence.
func SectionDirs(records []*dvk.Record) []string {
	var dirs []string
	for _, r := range records {
		dir := filepath.Dir(r.Path())
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// SetSequenceBySection links records like SetSequence and, when they span
// more than one directory, treats each directory as a section. sectionTitles
// holds one title per entry of SectionDirs(records). Records at directory
// boundaries are marked as section first and last.
func SetSequenceBySection(records []*dvk.Record, title string, sectionTitles []string) error {
	dirs := SectionDirs(records)
	if len(dirs) <= 1 {
		return SetSequence(records, title)
	}
	if len(sectionTitles) != len(dirs) {
		return fmt.Errorf("%w: %d directories, %d titles", ErrSectionTitles, len(dirs), len(sectionTitles))
	}

	for i, r := range records {
		dir := filepath.Dir(r.Path())
		r.SetSectionTitle(sectionTitles[slices.Index(dirs, dir)])
		r.SetSectionFirst(i == 0 || filepath.Dir(records[i-1].Path()) != dir)
		r.SetSectionLast(i == len(records)-1 || filepath.Dir(records[i+1].Path()) != dir)
	}
	return SetSequence(records, title)
}
