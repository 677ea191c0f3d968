package organizer

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// mover performs the physical relocation. A dry-run mover reports the
// decision's outcome without touching the filesystem.
type mover struct {
	dryRun bool
}

func actionFor(kind resolution) Action {
	switch kind {
	case resolveRename:
		return ActionRenamed
	case resolveOverwrite:
		return ActionOverwritten
	case resolveSkipDuplicate:
		return ActionSkippedDuplicate
	case resolveSkipPolicy:
		return ActionSkippedPolicy
	}
	return ActionMoved
}

// execute carries out the decision for rec and reports the outcome.
// Failures never delete the source: the source is removed only after the
// destination copy is verified byte for byte.
func (m mover) execute(rec *FileRecord, label string, d decision) Outcome {
	out := Outcome{
		Source:   rec.Path,
		Category: label,
		DryRun:   m.dryRun,
	}

	switch d.kind {
	case resolveSkipDuplicate, resolveSkipPolicy:
		out.Action = actionFor(d.kind)
		out.Destination = d.dest
		return out
	}

	if m.dryRun {
		out.Action = actionFor(d.kind)
		out.Destination = d.dest
		return out
	}

	dest, renamed, err := m.relocate(rec, d)
	if err != nil {
		out.Action = ActionFailed
		out.Error = err.Error()
		return out
	}
	out.Destination = dest
	out.Action = actionFor(d.kind)
	if renamed && d.kind == resolveProceed {
		// Lost a create race after a clean existence check.
		out.Action = ActionRenamed
	}
	return out
}

// relocate copies rec to the decided destination, verifies the copy,
// restores timestamps, and removes the source last. The exclusive create
// inside copyVerified closes the check-then-act window: losing the race
// moves on to the next numbered candidate instead of clobbering the
// winner's file.
func (m mover) relocate(rec *FileRecord, d decision) (string, bool, error) {
	if err := os.MkdirAll(filepath.Dir(d.base), 0o755); err != nil {
		return "", false, fmt.Errorf("create category directory: %w", err)
	}

	dest := d.dest
	n := d.n
	renamed := false
	for {
		err := copyVerified(rec.Path, dest, d.kind == resolveOverwrite)
		if err == nil {
			break
		}
		if errors.Is(err, fs.ErrExist) && d.kind != resolveOverwrite {
			n++
			dest = candidatePath(d.base, n)
			renamed = true
			continue
		}
		return "", false, err
	}

	if err := os.Chtimes(dest, rec.AccessTime, rec.ModTime); err != nil {
		// The copy is good but incomplete as a move; drop it and keep the
		// source authoritative.
		_ = os.Remove(dest)
		return "", false, fmt.Errorf("restore timestamps: %w", err)
	}

	if err := os.Remove(rec.Path); err != nil {
		// Verified destination and intact source both remain; report the
		// failure rather than deleting either copy.
		return "", false, fmt.Errorf("remove source after verified copy: %w", err)
	}
	return dest, renamed, nil
}

// copyVerified streams src to dst with paired SHA-256 digests and a size
// check, fsyncing before close. Without overwrite the destination is
// opened O_EXCL so a concurrent claim surfaces as fs.ErrExist. A failed
// or corrupted copy removes the partial destination and leaves the
// source untouched.
func copyVerified(src, dst string, overwrite bool) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	flags := os.O_CREATE | os.O_WRONLY | os.O_EXCL
	if overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	out, err := os.OpenFile(dst, flags, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("sync: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("close: %w", err)
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}
