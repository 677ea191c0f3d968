package utils

import "path/filepath"

// NameFilter narrows an organization run to file names matching the
// configured globs. Patterns apply to the bare file name, never the
// path; an empty include list admits every name not excluded.
type NameFilter struct {
	include []string
	exclude []string
}

func NewNameFilter(include, exclude []string) *NameFilter {
	return &NameFilter{
		include: append([]string(nil), include...),
		exclude: append([]string(nil), exclude...),
	}
}

// Admit reports whether a file with the given name is in scope for the
// run. Exclusion wins over inclusion.
func (f *NameFilter) Admit(name string) bool {
	if f == nil {
		return true
	}
	if len(f.include) > 0 && !matchAny(f.include, name) {
		return false
	}
	return !matchAny(f.exclude, name)
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		// Malformed globs never match; they are inert rather than fatal.
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
