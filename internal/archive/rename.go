package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dvkarchive/internal/dvk"
	"dvkarchive/internal/fileutil"
	"dvkarchive/internal/logging"
)

// ErrRenameConflict is returned when a rename target is already taken by
// another file.
var ErrRenameConflict = errors.New("rename target exists")

// RenameRecord moves a record's DVK file, media file and secondary file to
// names derived from Filename, keeping each file's extension, and rewrites
// the record. Files already at their target are left alone; missing media
// keeps its stored name. Every target is checked before anything moves, and
// a failure after a move puts the moved files back.
func RenameRecord(r *dvk.Record) (bool, error) {
	base := r.Filename()
	if base == "" {
		return false, fmt.Errorf("rename %s: %w", r.Path(), dvk.ErrIncomplete)
	}
	dir := filepath.Dir(r.Path())
	oldPath := r.Path()
	newPath := filepath.Join(dir, base+dvk.Extension)

	mediaTarget := base + filepath.Ext(r.MediaName())
	secondaryTarget := base + filepath.Ext(r.SecondaryName())
	if r.SecondaryName() != "" && secondaryTarget == mediaTarget {
		secondaryTarget = base + "_S" + filepath.Ext(r.SecondaryName())
	}

	var plan []move
	if m, ok := planMove(mediaMove, r.MediaFile(), filepath.Join(dir, mediaTarget)); ok {
		plan = append(plan, m)
	}
	if m, ok := planMove(secondaryMove, r.SecondaryFile(), filepath.Join(dir, secondaryTarget)); ok {
		plan = append(plan, m)
	}
	if newPath == oldPath && len(plan) == 0 {
		return false, nil
	}
	if newPath != oldPath && fileutil.Exists(newPath) {
		return false, fmt.Errorf("%w: %s", ErrRenameConflict, newPath)
	}
	for _, m := range plan {
		if fileutil.Exists(m.dst) {
			return false, fmt.Errorf("%w: %s", ErrRenameConflict, m.dst)
		}
	}

	media, secondary := r.MediaName(), r.SecondaryName()
	var done []move
	rollback := func(cause error) error {
		r.SetPath(oldPath)
		r.SetMediaFile(media)
		r.SetSecondaryFile(secondary)
		var errs []error
		for i := len(done) - 1; i >= 0; i-- {
			if err := fileutil.MoveFile(done[i].dst, done[i].src); err != nil {
				errs = append(errs, fmt.Errorf("restore %s: %w", filepath.Base(done[i].src), err))
			}
		}
		return errors.Join(append([]error{cause}, errs...)...)
	}
	for _, m := range plan {
		if err := fileutil.MoveFile(m.src, m.dst); err != nil {
			if errors.Is(err, os.ErrExist) {
				err = fmt.Errorf("%w: %s", ErrRenameConflict, m.dst)
			} else {
				err = fmt.Errorf("move %s: %w", filepath.Base(m.src), err)
			}
			return false, rollback(err)
		}
		done = append(done, m)
		if m.kind == mediaMove {
			r.SetMediaFile(filepath.Base(m.dst))
		} else {
			r.SetSecondaryFile(filepath.Base(m.dst))
		}
	}

	r.SetPath(newPath)
	if err := r.Write(); err != nil {
		return false, rollback(fmt.Errorf("rewrite record: %w", err))
	}
	if newPath != oldPath {
		if err := os.Remove(oldPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return true, fmt.Errorf("remove old record: %w", err)
		}
	}
	return true, nil
}

type moveKind int

const (
	mediaMove moveKind = iota
	secondaryMove
)

type move struct {
	kind     moveKind
	src, dst string
}

func planMove(kind moveKind, src, dst string) (move, bool) {
	if src == "" || src == dst || !fileutil.Exists(src) {
		return move{}, false
	}
	return move{kind: kind, src: src, dst: dst}, true
}

// RenameAll renames every loaded record and returns how many changed. Errors
// are logged and joined; one failing record does not stop the others.
func (a *Aggregator) RenameAll() (int, error) {
	var errs []error
	renamed := 0
	for i := range a.Size() {
		r := a.Get(i)
		changed, err := RenameRecord(r)
		if changed {
			renamed++
		}
		if err != nil {
			logging.WarnWithContext(a.logger, "record rename failed", "rename_failed",
				logging.String("path", r.Path()),
				logging.Error(err),
				logging.String(logging.FieldImpact, "record keeps its previous file name"),
			)
			errs = append(errs, err)
		}
	}
	a.byID = nil
	return renamed, errors.Join(errs...)
}
