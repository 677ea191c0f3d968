package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsPathWithin(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "a", "b.txt")
	outside := filepath.Join(filepath.Dir(root), "outside.txt")

	if !IsPathWithin(child, root) {
		t.Fatalf("expected %s to be within %s", child, root)
	}
	if IsPathWithin(outside, root) {
		t.Fatalf("did not expect %s to be within %s", outside, root)
	}
}

func TestSplitName(t *testing.T) {
	stem, ext := SplitName("notes.txt")
	if stem != "notes" || ext != ".txt" {
		t.Fatalf("unexpected split: %q %q", stem, ext)
	}
	stem, ext = SplitName("archive.tar.gz")
	if stem != "archive.tar" || ext != ".gz" {
		t.Fatalf("unexpected split: %q %q", stem, ext)
	}
	stem, ext = SplitName("README")
	if stem != "README" || ext != "" {
		t.Fatalf("unexpected split: %q %q", stem, ext)
	}
}

func TestSamePath(t *testing.T) {
	dir := t.TempDir()
	if !SamePath(dir, dir+string(os.PathSeparator)) {
		t.Fatal("expected cleaned paths to match")
	}
	if SamePath(dir, filepath.Join(dir, "sub")) {
		t.Fatal("distinct paths reported equal")
	}
}
