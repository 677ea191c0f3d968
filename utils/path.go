package utils

import (
	"path/filepath"
	"strings"
)

// IsPathWithin returns true if the given path is within root.
func IsPathWithin(path string, root string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	absPath, err := filepath.Abs(resolved)
	if err != nil {
		return false
	}
	rResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		rResolved = root
	}
	absRoot, err := filepath.Abs(rResolved)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// SplitName splits a file name into stem and extension. The extension
// includes the leading dot; names without one yield an empty extension.
func SplitName(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

// SamePath reports whether two paths resolve to the same absolute location.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(filepath.Clean(a))
	absB, errB := filepath.Abs(filepath.Clean(b))
	if errA != nil || errB != nil {
		return a == b
	}
	if resolved, err := filepath.EvalSymlinks(absA); err == nil {
		absA = resolved
	}
	if resolved, err := filepath.EvalSymlinks(absB); err == nil {
		absB = resolved
	}
	return absA == absB
}
