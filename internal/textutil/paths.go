package textutil

import (
	"path/filepath"
	"strings"
)

// TruncatePath shortens path for display by replacing the base directory
// prefix with "...". Paths outside base are returned in absolute form.
func TruncatePath(path, base string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if base == "" {
		return abs
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return abs
	}
	if abs == absBase {
		return "..."
	}
	prefix := strings.TrimSuffix(absBase, string(filepath.Separator)) + string(filepath.Separator)
	if strings.HasPrefix(abs, prefix) {
		return "..." + abs[len(prefix)-1:]
	}
	return abs
}
