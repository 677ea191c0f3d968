package organizer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v4/disk"
	"golang.org/x/time/rate"

	"shrike/category"
	"shrike/config"
	"shrike/logger"
	"shrike/utils"
)

// Organizer relocates the files directly inside a source directory into
// category subdirectories under the destination root.
type Organizer struct {
	cfg   *config.Config
	table *category.Table
}

func New(cfg *config.Config, table *category.Table) *Organizer {
	return &Organizer{cfg: cfg, table: table}
}

// Run enumerates the source directory and drives every file through the
// categorize -> resolve -> execute pipeline on a bounded worker pool.
// Validation failures abort before any file is touched; per-file errors
// are folded into the statistics and processing continues.
func (o *Organizer) Run(ctx context.Context) (*Stats, []Outcome, error) {
	source, destRoot, err := o.validatePaths()
	if err != nil {
		return nil, nil, err
	}

	records, err := o.enumerate(source)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return nil, nil, validationErrorf("cannot create destination root %s: %v", destRoot, err)
	}
	preflightDiskSpace(destRoot, records)

	stats := newStats(len(records))
	outcomes := make([]Outcome, 0, len(records))

	workers := o.cfg.Workers
	if o.cfg.Serial {
		workers = 1
	}
	if workers > len(records) && len(records) > 0 {
		workers = len(records)
	}
	if workers < 1 {
		workers = 1
	}

	logger.Infof("Organizing %d files from %s into %s (workers=%d, policy=%s, dry-run=%t)",
		len(records), source, destRoot, workers, o.cfg.ConflictPolicy, o.cfg.DryRun)

	bar := newProgressBar(len(records))

	var ioLimiter *rate.Limiter
	if o.cfg.MaxIOPerSecond > 0 {
		ioLimiter = rate.NewLimiter(rate.Limit(o.cfg.MaxIOPerSecond), o.cfg.MaxIOPerSecond)
	}

	m := mover{dryRun: o.cfg.DryRun}
	tasks := make(chan *FileRecord, workers)
	results := make(chan Outcome, workers)

	// Dispatcher. Cancellation stops feeding; in-flight files finish.
	go func() {
		defer close(tasks)
		for _, rec := range records {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if ioLimiter != nil {
				if err := ioLimiter.Wait(ctx); err != nil {
					return
				}
			}
			select {
			case <-ctx.Done():
				return
			case tasks <- rec:
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range tasks {
				results <- o.processFile(rec, destRoot, m)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Single aggregation point: stats, outcome list, and progress are
	// mutated here only.
	for out := range results {
		stats.apply(out)
		outcomes = append(outcomes, out)
		_ = bar.Add(1)
		logOutcome(out)
	}

	stats.EndTime = time.Now()
	return stats, outcomes, nil
}

func (o *Organizer) validatePaths() (string, string, error) {
	source, err := filepath.Abs(o.cfg.Source)
	if err != nil {
		return "", "", validationErrorf("invalid source path %s: %v", o.cfg.Source, err)
	}
	info, err := os.Stat(source)
	if err != nil {
		return "", "", validationErrorf("source directory %s does not exist", source)
	}
	if !info.IsDir() {
		return "", "", validationErrorf("source %s is not a directory", source)
	}

	destRoot := source
	if o.cfg.Destination != "" {
		destRoot, err = filepath.Abs(o.cfg.Destination)
		if err != nil {
			return "", "", validationErrorf("invalid destination path %s: %v", o.cfg.Destination, err)
		}
		if utils.SamePath(source, destRoot) {
			return "", "", validationErrorf("destination must differ from source (omit it to organize in place)")
		}
		if utils.IsPathWithin(source, destRoot) {
			// A category directory may then coincide with the source itself;
			// such files resolve as duplicates or renames, never data loss.
			logger.Warnf("Source %s lies inside destination %s; category directories may overlap the source", source, destRoot)
		}
	}
	return source, destRoot, nil
}

// enumerate lists regular files directly inside source, non-recursive.
// Dot-files are excluded unless configured otherwise.
func (o *Organizer) enumerate(source string) ([]*FileRecord, error) {
	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, validationErrorf("cannot read source directory %s: %v", source, err)
	}
	filter := utils.NewNameFilter(o.cfg.IncludePatterns, o.cfg.ExcludePatterns)

	records := make([]*FileRecord, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !o.cfg.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if !filter.Admit(name) {
			continue
		}
		path := filepath.Join(source, name)
		info, err := entry.Info()
		if err != nil {
			logger.Warnf("Failed to stat %s: %v", path, err)
			continue
		}
		records = append(records, NewFileRecord(path, info))
	}
	return records, nil
}

func (o *Organizer) processFile(rec *FileRecord, destRoot string, m mover) Outcome {
	label := o.categorizeRecord(rec)
	dest := filepath.Join(destRoot, label, rec.Name)

	d, err := resolve(rec, dest, Policy(o.cfg.ConflictPolicy), o.cfg.HashAlgorithm)
	if err != nil {
		return Outcome{
			Source:   rec.Path,
			Category: label,
			Action:   ActionFailed,
			DryRun:   o.cfg.DryRun,
			Error:    err.Error(),
		}
	}
	return m.execute(rec, label, d)
}

func (o *Organizer) categorizeRecord(rec *FileRecord) string {
	_, ext := utils.SplitName(rec.Name)
	label := o.table.Categorize(ext)
	if label == category.Fallback && o.cfg.SniffContent {
		if sniffed, ok := category.Sniff(rec.Path); ok {
			logger.Debugf("Sniffed %s as %s", rec.Path, sniffed)
			return sniffed
		}
	}
	return label
}

// preflightDiskSpace warns when the destination filesystem has less free
// space than the staged files total. Advisory only: moves within one
// filesystem release as much as they consume.
func preflightDiskSpace(destRoot string, records []*FileRecord) {
	usage, err := disk.Usage(destRoot)
	if err != nil {
		logger.Debugf("Free-space preflight skipped for %s: %v", destRoot, err)
		return
	}
	var need uint64
	for _, rec := range records {
		need += uint64(rec.Size)
	}
	if usage.Free < need {
		logger.Warnf("Destination %s has %d bytes free but staged files total %d bytes", destRoot, usage.Free, need)
	}
}

func logOutcome(out Outcome) {
	switch out.Action {
	case ActionFailed:
		logger.Errorf("Failed %s: %s", out.Source, out.Error)
	case ActionSkippedDuplicate:
		logger.Infof("Skipped duplicate %s (already at %s)", out.Source, out.Destination)
	case ActionSkippedPolicy:
		logger.Infof("Skipped %s by policy", out.Source)
	default:
		verb := string(out.Action)
		if out.DryRun {
			verb = "would have " + verb
		}
		logger.Debugf("%s: %s -> %s", verb, out.Source, out.Destination)
	}
}

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Organizing files"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetVisibility(progressVisible()),
		progressbar.OptionFullWidth(),
	)
}

func progressVisible() bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv("SHRIKE_DISABLE_PROGRESS")))
	return value != "1" && value != "true" && value != "yes" && value != "on"
}
