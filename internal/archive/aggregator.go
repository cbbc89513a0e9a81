package archive

import (
	"log/slog"
	"sort"

	"dvkarchive/internal/dvk"
	"dvkarchive/internal/logging"
)

// Aggregator indexes the records of every directory under a set of roots.
//
// Records are addressed two ways. A direct index counts records in directory
// order then file order. A sorted index is a position in the current sort
// order; sorted holds the direct index for each sorted position.
type Aggregator struct {
	logger      *slog.Logger
	dirs        []string
	collections []*Collection
	offsets     []int
	sorted      []int
	byID        map[dvk.Identity]int
}

// NewAggregator returns an empty aggregator. A nil logger discards output.
func NewAggregator(logger *slog.Logger) *Aggregator {
	return &Aggregator{logger: logging.NewComponentLogger(logger, "archive")}
}

// Load discovers every directory under roots and loads one Collection per
// directory, including directories without records. The sort order resets
// to direct order.
func (a *Aggregator) Load(roots ...string) {
	a.dirs = Discover(roots...)
	a.collections = make([]*Collection, 0, len(a.dirs))
	a.offsets = make([]int, 0, len(a.dirs))
	total := 0
	for _, dir := range a.dirs {
		c := NewCollection(a.logger)
		c.Load(dir)
		a.collections = append(a.collections, c)
		a.offsets = append(a.offsets, total)
		total += c.Size()
	}
	a.resetSorted()
	a.logger.Info("archive loaded",
		logging.Int("directories", len(a.dirs)),
		logging.Int("records", total),
	)
}

// Directories returns the discovered directories in load order.
func (a *Aggregator) Directories() []string {
	return append([]string(nil), a.dirs...)
}

// Collections returns the loaded collections in directory order.
func (a *Aggregator) Collections() []*Collection {
	return append([]*Collection(nil), a.collections...)
}

// Size returns the number of loaded records.
func (a *Aggregator) Size() int { return len(a.sorted) }

// Get returns the record at a sorted index, or a default record when the
// index is out of range.
func (a *Aggregator) Get(i int) *dvk.Record {
	if i < 0 || i >= len(a.sorted) {
		return dvk.New()
	}
	return a.GetDirect(a.sorted[i])
}

// GetDirect returns the record at a direct index, or a default record when
// the index is out of range.
func (a *Aggregator) GetDirect(i int) *dvk.Record {
	if i < 0 || i >= len(a.sorted) {
		return dvk.New()
	}
	// Last collection whose offset is <= i. Empty collections share an
	// offset with their successor, so the search lands on a non-empty one.
	c := sort.Search(len(a.offsets), func(j int) bool { return a.offsets[j] > i }) - 1
	if c < 0 {
		return dvk.New()
	}
	return a.collections[c].Get(i - a.offsets[c])
}

// Order returns a copy of the sorted-to-direct index mapping.
func (a *Aggregator) Order() []int {
	return append([]int(nil), a.sorted...)
}

// Sort orders every collection, then merges their orders into one. Blocks
// are merged two at a time from the front of a queue, with each merged block
// appended to the back, until one remains. The second block only wins a
// comparison when it sorts strictly before the first.
func (a *Aggregator) Sort(kind SortKind, groupByArtist bool) {
	a.byID = nil
	if a.Size() == 0 {
		a.resetSorted()
		return
	}

	blocks := make([][]int, 0, len(a.collections))
	for i, c := range a.collections {
		c.Sort(kind, groupByArtist)
		block := make([]int, c.Size())
		for j := range block {
			block[j] = a.offsets[i] + j
		}
		blocks = append(blocks, block)
	}

	for len(blocks) > 1 {
		merged := a.merge(blocks[0], blocks[1], kind, groupByArtist)
		blocks = append(blocks[2:], merged)
	}
	a.sorted = blocks[0]
	a.logger.Debug("archive sorted",
		logging.String("sort", kind.String()),
		logging.Bool("group_artists", groupByArtist),
	)
}

func (a *Aggregator) merge(first, second []int, kind SortKind, groupByArtist bool) []int {
	merged := make([]int, 0, len(first)+len(second))
	for len(first) > 0 && len(second) > 0 {
		if Compare(kind, groupByArtist, a.GetDirect(first[0]), a.GetDirect(second[0])) > 0 {
			merged = append(merged, second[0])
			second = second[1:]
		} else {
			merged = append(merged, first[0])
			first = first[1:]
		}
	}
	merged = append(merged, first...)
	return append(merged, second...)
}

// IndexOf returns the sorted index of the first record with the given
// identity, or -1.
func (a *Aggregator) IndexOf(id dvk.Identity) int {
	if id == "" {
		return -1
	}
	if a.byID == nil {
		a.byID = make(map[dvk.Identity]int, len(a.sorted))
		for i := range a.sorted {
			rid := a.Get(i).ID()
			if _, ok := a.byID[rid]; !ok {
				a.byID[rid] = i
			}
		}
	}
	if i, ok := a.byID[id]; ok {
		return i
	}
	return -1
}

func (a *Aggregator) resetSorted() {
	a.byID = nil
	total := 0
	for _, c := range a.collections {
		total += c.Size()
	}
	a.sorted = make([]int, total)
	for i := range a.sorted {
		a.sorted[i] = i
	}
}
