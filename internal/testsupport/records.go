package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"dvkarchive/internal/dvk"
)

// RecordSpec describes a fixture record. Zero fields fall back to values that
// satisfy dvk.Record.CanWrite.
type RecordSpec struct {
	ID      string
	Title   string
	Artists []string
	Time    [5]int
	Rating  int
	Views   int
	Media   string
	// TouchMedia creates the media file next to the record.
	TouchMedia bool
}

// WriteRecord writes a DVK file named name into dir and returns the record.
func WriteRecord(t testing.TB, dir, name string, spec RecordSpec) *dvk.Record {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	r := dvk.NewAt(filepath.Join(dir, name))
	r.SetID(orDefault(spec.ID, "ID"+name))
	r.SetTitle(orDefault(spec.Title, name))
	if len(spec.Artists) == 0 {
		spec.Artists = []string{"artist"}
	}
	r.SetArtists(spec.Artists)
	if spec.Time != [5]int{} {
		r.SetTimeInt(spec.Time[0], spec.Time[1], spec.Time[2], spec.Time[3], spec.Time[4])
	}
	r.SetRating(spec.Rating)
	r.SetViews(spec.Views)
	r.SetPageURL("/page/" + name)
	r.SetMediaFile(orDefault(spec.Media, name+".txt"))
	if err := r.Write(); err != nil {
		t.Fatalf("write record %s: %v", name, err)
	}
	if spec.TouchMedia {
		WriteFile(t, r.MediaFile(), 1)
	}
	return r
}

// Reload reads a record back from disk.
func Reload(t testing.TB, r *dvk.Record) *dvk.Record {
	t.Helper()

	loaded, err := dvk.Load(r.Path())
	if err != nil {
		t.Fatalf("reload %s: %v", r.Path(), err)
	}
	return loaded
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
