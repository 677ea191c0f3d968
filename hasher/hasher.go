package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"lukechampine.com/blake3"
)

const (
	// DefaultAlgorithm is used when no fingerprint algorithm is configured.
	DefaultAlgorithm = "sha256"

	fingerprintBufferSize      = 64 * 1024
	fingerprintLargeBufferSize = 128 * 1024
	largeBufferThreshold       = 256 * 1024
)

var bufferSmallPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, fingerprintBufferSize)
		return &buf
	},
}

var bufferLargePool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, fingerprintLargeBufferSize)
		return &buf
	},
}

// Supported reports whether algo names a usable fingerprint algorithm.
func Supported(algo string) bool {
	switch algo {
	case "sha256", "blake3", "xxhash":
		return true
	}
	return false
}

func newHash(algo string) (hash.Hash, error) {
	switch algo {
	case "sha256":
		return sha256.New(), nil
	case "blake3":
		return blake3.New(32, nil), nil
	case "xxhash":
		return xxhash.New(), nil
	}
	return nil, fmt.Errorf("unsupported fingerprint algorithm: %s", algo)
}

// Fingerprint streams the file at path through the selected hash in
// fixed-size chunks and returns the hex digest. The result depends only
// on the file's bytes, never on chunk boundaries. Read failures are
// returned to the caller; a file that vanishes or loses permissions
// mid-read is an error, not a partial digest.
func Fingerprint(path string, algo string) (string, error) {
	h, err := newHash(algo)
	if err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	bufferPool := &bufferSmallPool
	if info, statErr := file.Stat(); statErr == nil && info.Size() >= largeBufferThreshold {
		bufferPool = &bufferLargePool
	}
	bufferPtr := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(bufferPtr)
	buffer := *bufferPtr

	for {
		n, readErr := file.Read(buffer)
		if n > 0 {
			h.Write(buffer[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("read %s: %w", path, readErr)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
