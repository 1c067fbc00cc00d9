// Package thumbs maintains the content-fingerprinted thumbnail cache.
package thumbs

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint derives the cache key for a file from its identity and
// mutation state: absolute path, modification time and size. Any change
// that touches mtime or size yields a new key, which is what orphans
// stale cache entries. Recomputed on every request; never stored.
func Fingerprint(absPath string) (string, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	input := fmt.Sprintf("%s|%d|%d", absPath, info.ModTime().UnixNano(), info.Size())
	return fmt.Sprintf("%016x", xxhash.Sum64String(input)), nil
}
