package report

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"shrike/organizer"
)

func sampleStats() *organizer.Stats {
	return &organizer.Stats{
		Total:       3,
		Processed:   3,
		Moved:       2,
		Skipped:     0,
		Overwritten: 0,
		Failed:      1,
		PerCategory: map[string]int{"Images": 1, "Documents": 1},
		StartTime:   time.Now().Add(-2 * time.Second),
		EndTime:     time.Now(),
	}
}

func TestPrintSummary(t *testing.T) {
	rep := Build("/in", "/out", false, sampleStats(), []organizer.Outcome{
		{Source: "/in/a.jpg", Destination: "/out/Images/a.jpg", Category: "Images", Action: organizer.ActionMoved},
		{Source: "/in/b.txt", Destination: "/out/Documents/b.txt", Category: "Documents", Action: organizer.ActionMoved},
		{Source: "/in/c.bin", Action: organizer.ActionFailed, Error: "permission denied"},
	})

	var buf bytes.Buffer
	rep.Print(&buf)
	got := buf.String()

	for _, want := range []string{
		"Organization complete",
		"Total files:  3",
		"Moved:        2",
		"Failed:       1",
		"Documents",
		"Images",
		"Failures:",
		"permission denied",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestPrintDryRun(t *testing.T) {
	rep := Build("/in", "/in", true, sampleStats(), nil)
	var buf bytes.Buffer
	rep.Print(&buf)
	if !strings.Contains(buf.String(), "Dry run complete") {
		t.Fatalf("dry-run header missing:\n%s", buf.String())
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	rep := Build("/in", dir, false, sampleStats(), []organizer.Outcome{
		{Source: "/in/a.jpg", Destination: "/out/Images/a.jpg", Category: "Images", Action: organizer.ActionMoved},
	})

	path, err := rep.WriteFile(dir)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if decoded.Stats.Moved != 2 || len(decoded.Outcomes) != 1 {
		t.Fatalf("unexpected artifact content: %+v", decoded)
	}
	if !strings.HasPrefix(decoded.GeneratedAt, "20") {
		t.Fatalf("missing timestamp: %q", decoded.GeneratedAt)
	}
}
