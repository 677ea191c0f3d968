package category

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"
)

func TestCategorizeDefaults(t *testing.T) {
	table := NewTable(nil)

	cases := map[string]string{
		".jpg":  "Images",
		".JPG":  "Images",
		"jpeg":  "Images",
		".mp4":  "Videos",
		".txt":  "Documents",
		".mp3":  "Music",
		".zip":  "Archives",
		".json": "Data",
		".go":   "Code",
		".deb":  "Executables",
		".zzz":  Fallback,
		"":      Fallback,
	}
	for ext, want := range cases {
		if got := table.Categorize(ext); got != want {
			t.Errorf("Categorize(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestCategorizeEveryTableExtension(t *testing.T) {
	table := NewTable(nil)
	for _, def := range defaultExtensions {
		for _, ext := range def.exts {
			if got := table.Categorize(ext); got != def.label {
				t.Errorf("Categorize(%q) = %q, want %q", ext, got, def.label)
			}
		}
	}
}

func TestOverridesReplaceKnownCategory(t *testing.T) {
	table := NewTable(map[string][]string{
		"Images": {".heic"},
	})
	if got := table.Categorize(".heic"); got != "Images" {
		t.Fatalf("override not applied: %q", got)
	}
	// Replaced, not merged.
	if got := table.Categorize(".jpg"); got != Fallback {
		t.Fatalf("expected replaced set to drop .jpg, got %q", got)
	}
}

func TestOverridesIgnoreUnknownLabels(t *testing.T) {
	table := NewTable(map[string][]string{
		"Holograms": {".holo"},
	})
	if got := table.Categorize(".holo"); got != Fallback {
		t.Fatalf("unknown category should be ignored, got %q", got)
	}
	if len(table.Labels()) != len(defaultExtensions)+1 {
		t.Fatalf("unexpected label count: %d", len(table.Labels()))
	}
}

func TestLabelsOrderStable(t *testing.T) {
	a := NewTable(map[string][]string{"Music": {".mid"}})
	b := NewTable(nil)
	la, lb := a.Labels(), b.Labels()
	if len(la) != len(lb) {
		t.Fatalf("label count changed: %d vs %d", len(la), len(lb))
	}
	for i := range la {
		if la[i] != lb[i] {
			t.Fatalf("label order diverged at %d: %q vs %q", i, la[i], lb[i])
		}
	}
}

func TestSniffRecognizesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image")
	header := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	if err := os.WriteFile(path, header, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	label, ok := Sniff(path)
	if !ok || label != "Images" {
		t.Fatalf("expected Images, got %q (ok=%t)", label, ok)
	}
}

func TestSniffHeadToleratesShortReads(t *testing.T) {
	header := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 300)...)
	// One byte per Read call; the head must still fill completely.
	label, ok := sniffHead(iotest.OneByteReader(bytes.NewReader(header)))
	if !ok || label != "Images" {
		t.Fatalf("expected Images from a slow reader, got %q (ok=%t)", label, ok)
	}
}

func TestSniffUnknownContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(path, []byte("just some text"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := Sniff(path); ok {
		t.Fatal("plain text should not sniff to a category")
	}
}
