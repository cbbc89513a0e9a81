package dvk

import (
	"path/filepath"
	"slices"
	"strings"

	"dvkarchive/internal/textutil"
)

// Record is one DVK metadata entity. The zero value is the default record.
type Record struct {
	path string

	id      Identity
	title   string
	artists []string
	time    string

	webTags      []string
	userTags     []string
	description  string
	pageURL      string
	directURL    string
	secondaryURL string

	mediaName     string
	secondaryName string

	previousIDs    []Identity
	nextIDs        []Identity
	sectionFirst   bool
	sectionLast    bool
	sequenceTitle  string
	sectionTitle   string
	branchTitles   []string
	sequenceNumber int
	sequenceTotal  int

	rating int
	views  int
}

// New returns a default record.
func New() *Record {
	return &Record{}
}

// NewAt returns a default record that will be stored at path.
func NewAt(path string) *Record {
	r := &Record{}
	r.SetPath(path)
	return r
}

// Path returns the location of the DVK file backing the record.
func (r *Record) Path() string { return r.path }

// SetPath sets the DVK file location. Relative paths are made absolute.
func (r *Record) SetPath(path string) {
	if path == "" {
		r.path = ""
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	r.path = path
}

// ID returns the record identity.
func (r *Record) ID() Identity { return r.id }

// SetID sets the identity, normalized to uppercase.
func (r *Record) SetID(id string) { r.id = NewIdentity(id) }

// Title returns the title, which may be empty.
func (r *Record) Title() string { return r.title }

// SetTitle sets the title.
func (r *Record) SetTitle(title string) { r.title = title }

// Artists returns the sorted artist names.
func (r *Record) Artists() []string { return slices.Clone(r.artists) }

// ArtistsString joins the artists with commas, the form used for grouping.
func (r *Record) ArtistsString() string { return strings.Join(r.artists, ",") }

// SetArtist replaces the artists with a single name.
func (r *Record) SetArtist(artist string) { r.SetArtists([]string{artist}) }

// SetArtists replaces the artists. Blank and repeated names are dropped and
// the rest are sorted alphanumerically.
func (r *Record) SetArtists(artists []string) {
	list := cleanList(artists)
	slices.SortStableFunc(list, textutil.CompareAlphanum)
	r.artists = list
}

// WebTags returns the tags copied from the source site, or nil.
func (r *Record) WebTags() []string { return slices.Clone(r.webTags) }

// SetWebTags replaces the web tags, dropping blanks and repeats.
func (r *Record) SetWebTags(tags []string) { r.webTags = cleanList(tags) }

// UserTags returns the tags added locally, or nil.
func (r *Record) UserTags() []string { return slices.Clone(r.userTags) }

// SetUserTags replaces the user tags, dropping blanks and repeats.
func (r *Record) SetUserTags(tags []string) { r.userTags = cleanList(tags) }

// Description returns the escaped description text.
func (r *Record) Description() string { return r.description }

// PlainDescription returns the description with entities decoded.
func (r *Record) PlainDescription() string { return textutil.ReplaceEscapes(r.description) }

// SetDescription stores text, escaping non-ASCII characters outside markup.
func (r *Record) SetDescription(text string) {
	r.description = textutil.AddEscapesToHTML(strings.TrimSpace(text))
}

// PageURL returns the URL of the page the media came from.
func (r *Record) PageURL() string { return r.pageURL }

// SetPageURL sets the page URL.
func (r *Record) SetPageURL(url string) { r.pageURL = strings.TrimSpace(url) }

// DirectURL returns the direct media URL.
func (r *Record) DirectURL() string { return r.directURL }

// SetDirectURL sets the direct media URL.
func (r *Record) SetDirectURL(url string) { r.directURL = strings.TrimSpace(url) }

// SecondaryURL returns the URL of the secondary media.
func (r *Record) SecondaryURL() string { return r.secondaryURL }

// SetSecondaryURL sets the secondary media URL.
func (r *Record) SetSecondaryURL(url string) { r.secondaryURL = strings.TrimSpace(url) }

// MediaName returns the stored media file name.
func (r *Record) MediaName() string { return r.mediaName }

// SetMediaFile sets the media file name. Only the base name is kept; the file
// lives next to the DVK file.
func (r *Record) SetMediaFile(name string) { r.mediaName = baseName(name) }

// MediaFile returns the media location, or "" if either the record path or the
// media name is unset.
func (r *Record) MediaFile() string { return r.siblingPath(r.mediaName) }

// SecondaryName returns the stored secondary file name.
func (r *Record) SecondaryName() string { return r.secondaryName }

// SetSecondaryFile sets the secondary file name.
func (r *Record) SetSecondaryFile(name string) { r.secondaryName = baseName(name) }

// SecondaryFile returns the secondary media location or "".
func (r *Record) SecondaryFile() string { return r.siblingPath(r.secondaryName) }

func (r *Record) siblingPath(name string) string {
	if r.path == "" || name == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(r.path), name)
}

// Rating returns the 0-5 rating; 0 is unrated.
func (r *Record) Rating() int { return r.rating }

// SetRating sets the rating. Values outside 0-5 store 0.
func (r *Record) SetRating(rating int) {
	if rating < 0 || rating > 5 {
		rating = 0
	}
	r.rating = rating
}

// Views returns the view count.
func (r *Record) Views() int { return r.views }

// SetViews sets the view count. Negative values store 0.
func (r *Record) SetViews(views int) { r.views = max(views, 0) }

// CanWrite reports whether the record has every field required on disk.
func (r *Record) CanWrite() bool {
	return r.path != "" && r.id != "" && r.title != "" && len(r.artists) > 0 &&
		r.pageURL != "" && r.mediaName != ""
}

// Filename returns the file name base "<title>_<ID>" the record should be
// stored under, or "" when the title or identity is unset.
func (r *Record) Filename() string {
	if r.id == "" || r.title == "" {
		return ""
	}
	return textutil.FilenameToken(r.title) + "_" + string(r.id)
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	c := *r
	c.artists = slices.Clone(r.artists)
	c.webTags = slices.Clone(r.webTags)
	c.userTags = slices.Clone(r.userTags)
	c.previousIDs = copyIdentities(r.previousIDs)
	c.nextIDs = copyIdentities(r.nextIDs)
	c.branchTitles = slices.Clone(r.branchTitles)
	return &c
}

// cleanList trims entries, drops blanks and repeats, and returns nil for an
// empty result.
func cleanList(values []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func baseName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return filepath.Base(name)
}
