package category

import (
	"strings"

	"shrike/logger"
)

// Fallback is the category assigned when no extension set claims a file.
const Fallback = "Unknown"

type Category struct {
	Label      string
	Extensions map[string]struct{}
}

// Table maps file extensions to category labels. Lookup order is the
// construction order, so categorization is deterministic even when
// extension sets overlap (first match wins).
type Table struct {
	categories []Category
}

// defaultExtensions mirrors the built-in categorization table. Labels
// double as destination directory names.
var defaultExtensions = []struct {
	label string
	exts  []string
}{
	{"Images", []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp"}},
	{"Videos", []string{".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm"}},
	{"Documents", []string{".pdf", ".doc", ".docx", ".odt", ".txt", ".rtf", ".xls", ".xlsx", ".ppt", ".pptx"}},
	{"Music", []string{".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma"}},
	{"Archives", []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"}},
	{"Data", []string{".csv", ".json", ".xml", ".sql", ".db", ".sqlite"}},
	{"Code", []string{".py", ".js", ".html", ".css", ".java", ".c", ".cpp", ".h", ".sh", ".php", ".go"}},
	{"Executables", []string{".exe", ".msi", ".dmg", ".pkg", ".deb", ".rpm", ".apk"}},
}

// NewTable builds the category table from the built-in defaults with the
// given per-label extension overrides applied. Override keys that do not
// name a built-in category are logged and ignored; the table keeps the
// deterministic built-in order regardless of override map iteration.
func NewTable(overrides map[string][]string) *Table {
	t := &Table{categories: make([]Category, 0, len(defaultExtensions))}
	known := make(map[string]struct{}, len(defaultExtensions))
	for _, def := range defaultExtensions {
		known[def.label] = struct{}{}
		exts := def.exts
		if override, ok := overrides[def.label]; ok {
			exts = override
		}
		set := make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			set[NormalizeExt(ext)] = struct{}{}
		}
		t.categories = append(t.categories, Category{Label: def.label, Extensions: set})
	}
	for label := range overrides {
		if _, ok := known[label]; !ok {
			logger.Warnf("Unknown category %q in configuration, ignoring", label)
		}
	}
	return t
}

// NormalizeExt lowercases an extension and guarantees the leading dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Categorize returns the label owning the extension, or Fallback. It is
// total: every input maps to some label.
func (t *Table) Categorize(ext string) string {
	ext = NormalizeExt(ext)
	if ext == "" {
		return Fallback
	}
	for _, c := range t.categories {
		if _, ok := c.Extensions[ext]; ok {
			return c.Label
		}
	}
	return Fallback
}

// Labels returns the category labels in lookup order, fallback last.
func (t *Table) Labels() []string {
	labels := make([]string, 0, len(t.categories)+1)
	for _, c := range t.categories {
		labels = append(labels, c.Label)
	}
	return append(labels, Fallback)
}
