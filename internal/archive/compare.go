package archive

import (
	"strings"

	"dvkarchive/internal/dvk"
	"dvkarchive/internal/textutil"
)

// SortKind selects the primary ordering of records.
type SortKind int

const (
	SortAlpha SortKind = iota
	SortTime
	SortRating
	SortViews
)

func (k SortKind) String() string {
	switch k {
	case SortTime:
		return "time"
	case SortRating:
		return "rating"
	case SortViews:
		return "views"
	default:
		return "alpha"
	}
}

// ParseSortKind maps a sort code to a kind. Both the one-letter codes
// ("a", "t", "r", "v") and the long names are accepted; anything else sorts
// alphabetically.
func ParseSortKind(code string) SortKind {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "t", "time":
		return SortTime
	case "r", "rating":
		return SortRating
	case "v", "views":
		return SortViews
	default:
		return SortAlpha
	}
}

// Compare orders two records by kind, optionally grouping by artist first.
// It returns -1, 0 or 1 and treats a nil record as equal to anything.
func Compare(kind SortKind, groupByArtist bool, x, y *dvk.Record) int {
	if x == nil || y == nil {
		return 0
	}
	if groupByArtist {
		if c := textutil.CompareAlphanum(x.ArtistsString(), y.ArtistsString()); c != 0 {
			return c
		}
	}
	switch kind {
	case SortTime:
		return compareTime(x, y)
	case SortRating:
		return compareCounts(x.Rating(), y.Rating(), x, y)
	case SortViews:
		return compareCounts(x.Views(), y.Views(), x, y)
	default:
		return compareAlpha(x, y)
	}
}

// Comparator returns Compare bound to kind and groupByArtist, in the shape
// slices.SortStableFunc expects.
func Comparator(kind SortKind, groupByArtist bool) func(x, y *dvk.Record) int {
	return func(x, y *dvk.Record) int {
		return Compare(kind, groupByArtist, x, y)
	}
}

func compareAlpha(x, y *dvk.Record) int {
	if c := textutil.CompareAlphanum(x.Title(), y.Title()); c != 0 {
		return c
	}
	return textutil.CompareStrings(x.Time(), y.Time())
}

func compareTime(x, y *dvk.Record) int {
	if c := textutil.CompareStrings(x.Time(), y.Time()); c != 0 {
		return c
	}
	return textutil.CompareAlphanum(x.Title(), y.Title())
}

func compareCounts(a, b int, x, y *dvk.Record) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return compareAlpha(x, y)
	}
}
