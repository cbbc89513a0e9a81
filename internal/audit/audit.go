package audit

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"dvkarchive/internal/archive"
	"dvkarchive/internal/dvk"
	"dvkarchive/internal/fileutil"
	"dvkarchive/internal/logging"
)

// ProgressFunc receives the number of finished steps and the step total.
type ProgressFunc func(done, total int)

// Checker runs audits over an aggregator.
type Checker struct {
	archive  *archive.Aggregator
	logger   *slog.Logger
	progress ProgressFunc
}

// New returns a checker for agg. A nil logger discards output.
func New(agg *archive.Aggregator, logger *slog.Logger) *Checker {
	return &Checker{
		archive: agg,
		logger:  logging.NewComponentLogger(logger, "audit"),
	}
}

// OnProgress registers fn to be called as checks advance.
func (c *Checker) OnProgress(fn ProgressFunc) {
	c.progress = fn
}

func (c *Checker) report(done, total int) {
	if c.progress != nil {
		c.progress(done, total)
	}
}

// IdenticalIDs returns the paths of records that share an identity with
// another record. The archive is sorted alphabetically, grouped by artist;
// each identity group is listed in that order, groups ordered by their first
// member.
func (c *Checker) IdenticalIDs() []string {
	c.archive.Sort(archive.SortAlpha, true)

	groups := make(map[dvk.Identity][]string)
	var order []dvk.Identity
	for i := range c.archive.Size() {
		r := c.archive.Get(i)
		if _, ok := groups[r.ID()]; !ok {
			order = append(order, r.ID())
		}
		groups[r.ID()] = append(groups[r.ID()], r.Path())
	}

	var out []string
	for _, id := range order {
		if paths := groups[id]; len(paths) > 1 {
			out = append(out, paths...)
		}
	}
	c.logger.Info("identical id check complete", logging.Int("matches", len(out)))
	return out
}

// MissingMedia returns the paths of records whose media file, or whose
// secondary file when one is set, does not exist. Records are visited in
// alphabetical order grouped by artist.
func (c *Checker) MissingMedia() []string {
	c.archive.Sort(archive.SortAlpha, true)

	var out []string
	total := c.archive.Size()
	for i := range total {
		r := c.archive.Get(i)
		missing := !fileutil.Exists(r.MediaFile())
		if r.SecondaryName() != "" && !fileutil.Exists(r.SecondaryFile()) {
			missing = true
		}
		if missing {
			out = append(out, r.Path())
		}
		c.report(i+1, total)
	}
	c.logger.Info("missing media check complete", logging.Int("matches", len(out)))
	return out
}

// UnlinkedMedia returns files that sit in an archive directory but are
// neither DVK files nor referenced as media by a record in that directory.
// Unreadable directories are logged and skipped.
func (c *Checker) UnlinkedMedia() []string {
	collections := c.archive.Collections()
	var out []string
	for i, col := range collections {
		linked := make(map[string]bool, col.Size()*2)
		for j := range col.Size() {
			r := col.Get(j)
			linked[r.MediaName()] = true
			linked[r.SecondaryName()] = true
		}
		entries, err := os.ReadDir(col.Dir())
		if err != nil {
			logging.WarnWithContext(c.logger, "directory unreadable during unlinked media check", "audit_dir_unreadable",
				logging.String("dir", col.Dir()),
				logging.Error(err),
				logging.String(logging.FieldImpact, "files in this directory were not checked"),
			)
			c.report(i+1, len(collections))
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || strings.EqualFold(filepath.Ext(name), dvk.Extension) || linked[name] {
				continue
			}
			out = append(out, filepath.Join(col.Dir(), name))
		}
		c.report(i+1, len(collections))
	}
	slices.Sort(out)
	c.logger.Info("unlinked media check complete", logging.Int("matches", len(out)))
	return out
}

// DuplicateMedia returns groups of existing media and secondary files with
// identical content. Files are compared by size, then by BLAKE2b digest.
// Groups are ordered by their first path; paths within a group are sorted.
func (c *Checker) DuplicateMedia() ([][]string, error) {
	bySize := make(map[int64][]string)
	seen := make(map[string]bool)
	for i := range c.archive.Size() {
		r := c.archive.GetDirect(i)
		for _, path := range []string{r.MediaFile(), r.SecondaryFile()} {
			if path == "" || seen[path] {
				continue
			}
			seen[path] = true
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			bySize[info.Size()] = append(bySize[info.Size()], path)
		}
	}

	var candidates []string
	for _, paths := range bySize {
		if len(paths) > 1 {
			candidates = append(candidates, paths...)
		}
	}
	slices.Sort(candidates)

	byDigest := make(map[string][]string)
	for i, path := range candidates {
		sum, err := fileutil.Digest(path)
		if err != nil {
			return nil, err
		}
		byDigest[sum] = append(byDigest[sum], path)
		c.report(i+1, len(candidates))
	}

	var groups [][]string
	for _, paths := range byDigest {
		if len(paths) > 1 {
			groups = append(groups, paths)
		}
	}
	slices.SortFunc(groups, func(a, b []string) int { return strings.Compare(a[0], b[0]) })
	c.logger.Info("duplicate media check complete",
		logging.Int("candidates", len(candidates)),
		logging.Int("groups", len(groups)),
	)
	return groups, nil
}
