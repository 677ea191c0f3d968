package organizer

import (
	"fmt"
	"os"
	"path/filepath"

	"shrike/hasher"
	"shrike/utils"
)

// Policy selects how a destination collision with distinct content is
// resolved. The policy is fixed up front; resolution never blocks on
// user input.
type Policy string

const (
	PolicyRename    Policy = "rename"
	PolicyOverwrite Policy = "overwrite"
	PolicySkip      Policy = "skip"
	PolicyFail      Policy = "fail"
)

func ValidPolicy(p string) bool {
	switch Policy(p) {
	case PolicyRename, PolicyOverwrite, PolicySkip, PolicyFail:
		return true
	}
	return false
}

type resolution int

const (
	resolveProceed resolution = iota
	resolveRename
	resolveOverwrite
	resolveSkipDuplicate
	resolveSkipPolicy
)

// decision carries the resolver's verdict. base is the uncontested
// destination path; dest is the path actually chosen (a numbered
// candidate for renames); n is the candidate index the executor resumes
// from if it loses a create race.
type decision struct {
	kind resolution
	base string
	dest string
	n    int
}

// resolve decides what to do about rec landing at dest. A collision with
// byte-identical content (equal size, equal fingerprint) is a duplicate
// skip, reported distinctly from error skips. The existence checks here
// are advisory; the executor re-validates atomically at create time.
func resolve(rec *FileRecord, dest string, policy Policy, algo string) (decision, error) {
	existing, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return decision{kind: resolveProceed, base: dest, dest: dest}, nil
	}
	if err != nil {
		return decision{}, fmt.Errorf("stat destination %s: %w", dest, err)
	}

	// Equal size is a precondition for equality; fingerprint only then.
	if existing.Size() == rec.Size {
		srcFP, err := rec.ContentFingerprint(algo)
		if err != nil {
			return decision{}, fmt.Errorf("fingerprint source: %w", err)
		}
		dstFP, err := hasher.Fingerprint(dest, algo)
		if err != nil {
			return decision{}, fmt.Errorf("fingerprint destination: %w", err)
		}
		if srcFP == dstFP {
			return decision{kind: resolveSkipDuplicate, base: dest, dest: dest}, nil
		}
	}

	switch policy {
	case PolicyOverwrite:
		return decision{kind: resolveOverwrite, base: dest, dest: dest}, nil
	case PolicySkip:
		return decision{kind: resolveSkipPolicy, base: dest, dest: dest}, nil
	case PolicyFail:
		return decision{}, fmt.Errorf("destination %s already exists", dest)
	default:
		candidate, n, err := firstFreeCandidate(dest)
		if err != nil {
			return decision{}, err
		}
		return decision{kind: resolveRename, base: dest, dest: candidate, n: n}, nil
	}
}

// candidatePath returns base for n == 0 and {stem}_{n}{ext} otherwise.
func candidatePath(base string, n int) string {
	if n == 0 {
		return base
	}
	dir := filepath.Dir(base)
	stem, ext := utils.SplitName(filepath.Base(base))
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
}

// firstFreeCandidate walks n = 1, 2, ... until a name is unclaimed.
// Numbers are assigned in increasing order with no gaps.
func firstFreeCandidate(base string) (string, int, error) {
	for n := 1; ; n++ {
		candidate := candidatePath(base, n)
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, n, nil
		}
		if err != nil {
			return "", 0, fmt.Errorf("stat candidate %s: %w", candidate, err)
		}
	}
}
