package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"shrike/organizer"
	"shrike/version"
)

// Report is the finalized summary of one run: aggregate statistics,
// per-category counts, and the full outcome list.
type Report struct {
	Version     string              `json:"version"`
	GeneratedAt string              `json:"generated_at"`
	Source      string              `json:"source"`
	Destination string              `json:"destination"`
	DryRun      bool                `json:"dry_run"`
	Stats       *organizer.Stats    `json:"stats"`
	Outcomes    []organizer.Outcome `json:"outcomes"`
}

func Build(source, destination string, dryRun bool, stats *organizer.Stats, outcomes []organizer.Outcome) *Report {
	return &Report{
		Version:     version.Version,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Source:      source,
		Destination: destination,
		DryRun:      dryRun,
		Stats:       stats,
		Outcomes:    outcomes,
	}
}

// Print writes the human-readable summary.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w)
	if r.DryRun {
		fmt.Fprintln(w, "Dry run complete (no files were moved)")
	} else {
		fmt.Fprintln(w, "Organization complete")
	}
	fmt.Fprintln(w, "---------------------")
	fmt.Fprintf(w, "Total files:  %d\n", r.Stats.Total)
	fmt.Fprintf(w, "Processed:    %d\n", r.Stats.Processed)
	fmt.Fprintf(w, "Moved:        %d\n", r.Stats.Moved)
	fmt.Fprintf(w, "Skipped:      %d\n", r.Stats.Skipped)
	fmt.Fprintf(w, "Overwritten:  %d\n", r.Stats.Overwritten)
	fmt.Fprintf(w, "Failed:       %d\n", r.Stats.Failed)
	fmt.Fprintf(w, "Duration:     %.2fs\n", r.Stats.Duration().Seconds())

	if len(r.Stats.PerCategory) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Per category:")
		labels := make([]string, 0, len(r.Stats.PerCategory))
		for label := range r.Stats.PerCategory {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(w, "  %-12s %d\n", label, r.Stats.PerCategory[label])
		}
	}

	for _, out := range r.Outcomes {
		if out.Action == organizer.ActionFailed {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Failures:")
			break
		}
	}
	for _, out := range r.Outcomes {
		if out.Action == organizer.ActionFailed {
			fmt.Fprintf(w, "  %s: %s\n", out.Source, out.Error)
		}
	}
}

// WriteFile persists the report as a timestamped JSON artifact in the
// destination root and returns its path.
func (r *Report) WriteFile(destRoot string) (string, error) {
	now := time.Now().UTC()
	name := fmt.Sprintf("shrike-report-%s-%d.json", now.Format("20060102-150405"), now.Unix())
	path := filepath.Join(destRoot, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", err
	}
	buf := bufio.NewWriter(f)
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		f.Close()
		return "", err
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
