package archive_test

import (
	"fmt"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dvkarchive/internal/archive"
	"dvkarchive/internal/dvk"
	"dvkarchive/internal/testsupport"
	"dvkarchive/internal/textutil"
)

// newFixtureTree writes eight records spread over a root directory, two
// subdirectories, and a nested subdirectory.
func newFixtureTree(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "handler")
	dirs := []string{
		root,
		filepath.Join(root, "sub1"),
		filepath.Join(root, "sub2"),
		filepath.Join(root, "sub2", "intSub"),
	}
	for count := range 8 {
		artist := "Thing"
		if count == 2 || count == 3 {
			artist = fmt.Sprintf("Artist%d", count)
		}
		testsupport.WriteRecord(t, dirs[count/2], fmt.Sprintf("dvk%d.dvk", count), testsupport.RecordSpec{
			ID:      fmt.Sprintf("id%d", count),
			Title:   fmt.Sprintf("DVK %d", count),
			Artists: []string{artist},
			Time:    [5]int{2019, 11, 8, 12, count},
			Rating:  count,
			Views:   count,
		})
	}
	return root
}

func titles(agg *archive.Aggregator) []string {
	out := make([]string, agg.Size())
	for i := range out {
		out[i] = agg.Get(i).Title()
	}
	return out
}

func TestDiscover(t *testing.T) {
	root := newFixtureTree(t)

	got := archive.Discover(root)
	want := []string{
		root,
		filepath.Join(root, "sub1"),
		filepath.Join(root, "sub2"),
		filepath.Join(root, "sub2", "intSub"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected directories (-want +got):\n%s", diff)
	}

	got = archive.Discover(filepath.Join(root, "sub1"), filepath.Join(root, "sub2"), filepath.Join(root, "sub1"))
	if len(got) != 3 {
		t.Fatalf("expected 3 directories, got %v", got)
	}
	if got := archive.Discover(); len(got) != 0 {
		t.Fatalf("expected no directories, got %v", got)
	}
	if got := archive.Discover(filepath.Join(root, "missing")); len(got) != 0 {
		t.Fatalf("expected no directories for missing root, got %v", got)
	}
}

func TestAggregatorLoad(t *testing.T) {
	root := newFixtureTree(t)
	agg := archive.NewAggregator(nil)
	agg.Load(root)

	if agg.Size() != 8 {
		t.Fatalf("unexpected size: got %d want 8", agg.Size())
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5, 6, 7}, agg.Order()); diff != "" {
		t.Fatalf("load should reset to direct order (-want +got):\n%s", diff)
	}
	for _, i := range []int{-1, 8} {
		if agg.GetDirect(i).Title() != "" || agg.Get(i).Title() != "" {
			t.Fatalf("out of range index %d should give a default record", i)
		}
	}
	seen := map[string]bool{}
	for i := range 8 {
		title := agg.GetDirect(i).Title()
		if seen[title] {
			t.Fatalf("duplicate record at direct index %d: %q", i, title)
		}
		seen[title] = true
	}

	agg.Load(filepath.Join(root, "sub1"))
	if agg.Size() != 2 {
		t.Fatalf("unexpected size for sub1: got %d want 2", agg.Size())
	}
	agg.Load()
	if agg.Size() != 0 || len(agg.Order()) != 0 {
		t.Fatalf("expected empty aggregator, got size %d", agg.Size())
	}
}

func TestAggregatorSort(t *testing.T) {
	root := newFixtureTree(t)
	agg := archive.NewAggregator(nil)
	agg.Load(root)

	tests := []struct {
		name  string
		kind  archive.SortKind
		group bool
		want  []string
	}{
		{"alpha", archive.SortAlpha, false, []string{"DVK 0", "DVK 1", "DVK 2", "DVK 3", "DVK 4", "DVK 5", "DVK 6", "DVK 7"}},
		{"time", archive.SortTime, false, []string{"DVK 0", "DVK 1", "DVK 2", "DVK 3", "DVK 4", "DVK 5", "DVK 6", "DVK 7"}},
		{"views", archive.SortViews, false, []string{"DVK 0", "DVK 1", "DVK 2", "DVK 3", "DVK 4", "DVK 5", "DVK 6", "DVK 7"}},
		// Ratings above 5 are stored as 0.
		{"rating", archive.SortRating, false, []string{"DVK 0", "DVK 6", "DVK 7", "DVK 1", "DVK 2", "DVK 3", "DVK 4", "DVK 5"}},
		{"grouped", archive.SortAlpha, true, []string{"DVK 2", "DVK 3", "DVK 0", "DVK 1", "DVK 4", "DVK 5", "DVK 6", "DVK 7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg.Sort(tt.kind, tt.group)
			if diff := cmp.Diff(tt.want, titles(agg)); diff != "" {
				t.Fatalf("unexpected order (-want +got):\n%s", diff)
			}
			order := agg.Order()
			slices.Sort(order)
			if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5, 6, 7}, order); diff != "" {
				t.Fatalf("sort index is not a permutation (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAggregatorSortMatchesGlobalSort(t *testing.T) {
	root := t.TempDir()
	names := []string{"b 10", "a 2", "Zed", "a 10", "c", "B 3", "x 1.5", "x 1.25", "empty dir", "m"}
	for i, name := range names {
		dir := filepath.Join(root, fmt.Sprintf("d%d", i%4))
		testsupport.WriteRecord(t, dir, fmt.Sprintf("r%d.dvk", i), testsupport.RecordSpec{Title: name})
	}
	testsupport.WriteText(t, filepath.Join(root, "d9", "notes.txt"), "no records here")

	agg := archive.NewAggregator(nil)
	agg.Load(root)
	agg.Sort(archive.SortAlpha, false)

	want := slices.Clone(names)
	slices.SortFunc(want, textutil.CompareAlphanum)
	if diff := cmp.Diff(want, titles(agg)); diff != "" {
		t.Fatalf("merged order differs from a global sort (-want +got):\n%s", diff)
	}
}

func TestAggregatorSortIsRepeatable(t *testing.T) {
	root := newFixtureTree(t)
	agg := archive.NewAggregator(nil)
	agg.Load(root)

	for _, kind := range []archive.SortKind{archive.SortAlpha, archive.SortTime, archive.SortRating, archive.SortViews} {
		for _, group := range []bool{false, true} {
			agg.Sort(kind, group)
			first := agg.Order()
			agg.Sort(kind, group)
			if diff := cmp.Diff(first, agg.Order()); diff != "" {
				t.Fatalf("sort %v group=%v changed on repeat (-first +second):\n%s", kind, group, diff)
			}
		}
	}
}

func TestCollectionGetOutOfRange(t *testing.T) {
	root := newFixtureTree(t)
	c := archive.NewCollection(nil)
	c.Load(filepath.Join(root, "sub1"))
	if c.Size() != 2 {
		t.Fatalf("unexpected size: got %d want 2", c.Size())
	}

	for _, i := range []int{-1, c.Size()} {
		got := c.Get(i)
		if diff := cmp.Diff(dvk.New(), got, cmp.AllowUnexported(dvk.Record{})); diff != "" {
			t.Fatalf("Get(%d) should be a default record (-want +got):\n%s", i, diff)
		}
		got.SetTitle("changed")
		if c.Get(i).Title() != "" {
			t.Fatalf("Get(%d) should not share the default record", i)
		}
	}
}

func TestAggregatorSortEmpty(t *testing.T) {
	agg := archive.NewAggregator(nil)
	agg.Load(t.TempDir())
	agg.Sort(archive.SortTime, true)
	if agg.Size() != 0 {
		t.Fatalf("expected empty aggregator, got %d", agg.Size())
	}
}

func TestIndexOf(t *testing.T) {
	root := newFixtureTree(t)
	agg := archive.NewAggregator(nil)
	agg.Load(root)
	agg.Sort(archive.SortRating, false)

	i := agg.IndexOf(dvk.NewIdentity("id6"))
	if i != 1 {
		t.Fatalf("unexpected index for ID6: got %d want 1", i)
	}
	if agg.IndexOf("NOPE") != -1 || agg.IndexOf("") != -1 {
		t.Fatal("unknown identity should give -1")
	}

	agg.Sort(archive.SortAlpha, false)
	if got := agg.IndexOf(dvk.NewIdentity("id6")); got != 6 {
		t.Fatalf("index map should be rebuilt after sort: got %d want 6", got)
	}
}

func TestParseSortKind(t *testing.T) {
	tests := map[string]archive.SortKind{
		"t":      archive.SortTime,
		"TIME":   archive.SortTime,
		"r":      archive.SortRating,
		"v":      archive.SortViews,
		"views":  archive.SortViews,
		"a":      archive.SortAlpha,
		"":       archive.SortAlpha,
		"random": archive.SortAlpha,
	}
	for code, want := range tests {
		if got := archive.ParseSortKind(code); got != want {
			t.Fatalf("ParseSortKind(%q) = %v, want %v", code, got, want)
		}
	}
}

func TestCompare(t *testing.T) {
	a := dvk.New()
	a.SetTitle("Title 2")
	a.SetArtist("Zed")
	a.SetTimeInt(2020, 1, 1, 0, 0)
	a.SetViews(3)

	b := dvk.New()
	b.SetTitle("title 10")
	b.SetArtist("Abe")
	b.SetTimeInt(2019, 1, 1, 0, 0)
	b.SetViews(3)

	tests := []struct {
		name  string
		kind  archive.SortKind
		group bool
		want  int
	}{
		{"alpha", archive.SortAlpha, false, -1},
		{"time", archive.SortTime, false, 1},
		{"views tie falls back to alpha", archive.SortViews, false, -1},
		{"group by artist first", archive.SortAlpha, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := archive.Compare(tt.kind, tt.group, a, b); got != tt.want {
				t.Fatalf("Compare = %d, want %d", got, tt.want)
			}
			if got := archive.Compare(tt.kind, tt.group, b, a); got != -tt.want {
				t.Fatalf("reversed Compare = %d, want %d", got, -tt.want)
			}
		})
	}
	if archive.Compare(archive.SortAlpha, false, nil, a) != 0 {
		t.Fatal("nil record should compare equal")
	}
}

func TestCollectionSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteRecord(t, dir, "good.dvk", testsupport.RecordSpec{})
	testsupport.WriteText(t, filepath.Join(dir, "bad.dvk"), "{")
	testsupport.WriteText(t, filepath.Join(dir, "other.txt"), "text")
	testsupport.WriteRecord(t, filepath.Join(dir, "nested"), "deep.dvk", testsupport.RecordSpec{})

	c := archive.NewCollection(nil)
	c.Load(dir)
	if c.Size() != 1 {
		t.Fatalf("unexpected collection size: got %d want 1", c.Size())
	}
	if c.Get(5).Title() != "" {
		t.Fatal("out of range index should give a default record")
	}
}
