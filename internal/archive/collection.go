package archive

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"dvkarchive/internal/dvk"
	"dvkarchive/internal/logging"
)

// Collection holds the records stored directly in one directory.
type Collection struct {
	dir     string
	records []*dvk.Record
	logger  *slog.Logger
}

// NewCollection returns an empty collection. A nil logger discards output.
func NewCollection(logger *slog.Logger) *Collection {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Collection{logger: logger}
}

// Dir returns the directory last passed to Load.
func (c *Collection) Dir() string { return c.dir }

// Load replaces the collection contents with the DVK files directly inside
// dir, in file name order. Subdirectories are not visited. Files that cannot
// be read or decoded are skipped.
func (c *Collection) Load(dir string) {
	c.dir = dir
	c.records = nil

	entries, err := os.ReadDir(dir)
	if err != nil {
		c.logger.Warn("collection directory unreadable",
			logging.String("dir", dir),
			logging.Error(err),
		)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), dvk.Extension) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		record, err := dvk.Load(path)
		if err != nil {
			logging.WarnWithContext(c.logger, "skipping unreadable dvk file", "record_unreadable",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "record left out of the index"),
				logging.String(logging.FieldErrorHint, "fix or remove the file"),
			)
			continue
		}
		c.records = append(c.records, record)
	}
	c.logger.Debug("collection loaded",
		logging.String("dir", dir),
		logging.Int("records", len(c.records)),
	)
}

// Size returns the number of records.
func (c *Collection) Size() int { return len(c.records) }

// Get returns record i, or a default record when i is out of range.
func (c *Collection) Get(i int) *dvk.Record {
	if i < 0 || i >= len(c.records) {
		return dvk.New()
	}
	return c.records[i]
}

// Sort orders the records in place. Equal records keep their relative order.
func (c *Collection) Sort(kind SortKind, groupByArtist bool) {
	slices.SortStableFunc(c.records, Comparator(kind, groupByArtist))
}
