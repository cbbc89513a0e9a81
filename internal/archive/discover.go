package archive

import (
	"io/fs"
	"path/filepath"
	"slices"
)

// Discover returns every directory under the given roots, roots included, as
// sorted absolute paths without duplicates. Missing roots and unreadable
// subtrees are skipped.
func Discover(roots ...string) []string {
	var dirs []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		_ = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err == nil && d.IsDir() {
				dirs = append(dirs, path)
			}
			return nil
		})
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}
