package organizer

import (
	"os"
	"time"

	"github.com/djherbis/times"

	"shrike/hasher"
)

// Action classifies the result of one file's pipeline.
type Action string

const (
	ActionMoved            Action = "moved"
	ActionRenamed          Action = "renamed"
	ActionOverwritten      Action = "overwritten"
	ActionSkippedDuplicate Action = "skipped-duplicate"
	ActionSkippedPolicy    Action = "skipped-policy"
	ActionFailed           Action = "failed"
)

// FileRecord identifies one source file under consideration. A record is
// owned by exactly one worker after dispatch; the memoized fingerprint
// needs no locking.
type FileRecord struct {
	Path         string
	Name         string
	Size         int64
	ModTime      time.Time
	AccessTime   time.Time
	CreationTime time.Time

	fingerprint     string
	fingerprintAlgo string
}

// NewFileRecord builds a record from a directory listing entry.
// Access and birth times come from the platform where available.
func NewFileRecord(path string, info os.FileInfo) *FileRecord {
	rec := &FileRecord{
		Path:       path,
		Name:       info.Name(),
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		AccessTime: info.ModTime(),
	}
	if ts, err := times.Stat(path); err == nil {
		rec.AccessTime = ts.AccessTime()
		if ts.HasBirthTime() {
			rec.CreationTime = ts.BirthTime()
		}
	}
	return rec
}

// ContentFingerprint computes the record's content hash lazily and
// memoizes it, so a record fingerprinted during conflict resolution is
// never read twice.
func (r *FileRecord) ContentFingerprint(algo string) (string, error) {
	if r.fingerprint != "" && r.fingerprintAlgo == algo {
		return r.fingerprint, nil
	}
	fp, err := hasher.Fingerprint(r.Path, algo)
	if err != nil {
		return "", err
	}
	r.fingerprint = fp
	r.fingerprintAlgo = algo
	return fp, nil
}

// Outcome is the recorded result of processing one source file. Produced
// once per record and consumed only by the aggregator.
type Outcome struct {
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Category    string `json:"category,omitempty"`
	Action      Action `json:"action"`
	DryRun      bool   `json:"dry_run,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Stats aggregates a run. Only the aggregator goroutine mutates it.
type Stats struct {
	Total       int            `json:"total"`
	Processed   int            `json:"processed"`
	Moved       int            `json:"moved"`
	Skipped     int            `json:"skipped"`
	Overwritten int            `json:"overwritten"`
	Failed      int            `json:"failed"`
	PerCategory map[string]int `json:"per_category"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time"`
}

func newStats(total int) *Stats {
	return &Stats{
		Total:       total,
		PerCategory: make(map[string]int),
		StartTime:   time.Now(),
	}
}

func (s *Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// apply folds one outcome into the counters. Renamed and overwritten
// files count as moved; overwrites are additionally tracked. PerCategory
// counts placements only, so its values always sum to Moved.
func (s *Stats) apply(o Outcome) {
	s.Processed++
	switch o.Action {
	case ActionMoved, ActionRenamed:
		s.Moved++
		s.place(o.Category)
	case ActionOverwritten:
		s.Moved++
		s.Overwritten++
		s.place(o.Category)
	case ActionSkippedDuplicate, ActionSkippedPolicy:
		s.Skipped++
	case ActionFailed:
		s.Failed++
	}
}

func (s *Stats) place(label string) {
	if label != "" {
		s.PerCategory[label]++
	}
}
