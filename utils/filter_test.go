package utils

import "testing"

func TestNameFilterAdmitsEverythingByDefault(t *testing.T) {
	filter := NewNameFilter(nil, nil)
	for _, name := range []string{"photo.jpg", "notes.txt", "song.mp3"} {
		if !filter.Admit(name) {
			t.Errorf("%s should be admitted with no patterns", name)
		}
	}
	var nilFilter *NameFilter
	if !nilFilter.Admit("anything") {
		t.Error("nil filter should admit everything")
	}
}

func TestNameFilterIncludeGlobs(t *testing.T) {
	filter := NewNameFilter([]string{"*.jpg", "*.png"}, nil)
	if !filter.Admit("photo.jpg") || !filter.Admit("diagram.png") {
		t.Error("matching names should be admitted")
	}
	if filter.Admit("notes.txt") {
		t.Error("non-matching name should be rejected when includes are set")
	}
}

func TestNameFilterExcludeGlobs(t *testing.T) {
	filter := NewNameFilter(nil, []string{"*.tmp", "*.partial"})
	if filter.Admit("report.tmp") || filter.Admit("video.partial") {
		t.Error("excluded names should be rejected")
	}
	if !filter.Admit("song.mp3") {
		t.Error("unexcluded name should be admitted")
	}
}

func TestNameFilterExcludeWinsOverInclude(t *testing.T) {
	filter := NewNameFilter([]string{"*.txt"}, []string{"notes*"})
	if filter.Admit("notes.txt") {
		t.Error("exclusion must win over inclusion")
	}
	if !filter.Admit("todo.txt") {
		t.Error("included and unexcluded name should be admitted")
	}
}

func TestNameFilterIgnoresMalformedPattern(t *testing.T) {
	filter := NewNameFilter([]string{"[", "*.jpg"}, nil)
	if !filter.Admit("photo.jpg") {
		t.Error("well-formed pattern should still match")
	}
	if filter.Admit("notes.txt") {
		t.Error("malformed pattern must not match anything")
	}
}
