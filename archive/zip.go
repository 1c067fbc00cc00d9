// Package archive assembles ad-hoc ZIP downloads from resolved files.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hiakki/GhumaggerSnap/tool"
)

var (
	// ErrNoSelection is returned when the requested path list is empty.
	ErrNoSelection = errors.New("no files selected")
	// ErrNoValidFiles is returned when no requested path is an existing
	// regular file.
	ErrNoValidFiles = errors.New("no valid files in selection")
)

// BuildZip writes a deflate-compressed ZIP of the given absolute paths
// to w, one entry per surviving file, streaming entry by entry so only
// one file's read window is in memory at a time. Paths that are missing
// or not regular files are dropped silently; entry names are base
// filenames, disambiguated with " (N)" before the extension in
// processing order. Returns the number of entries written.
func BuildZip(w io.Writer, absPaths []string) (int, error) {
	if len(absPaths) == 0 {
		return 0, ErrNoSelection
	}

	valid := make([]string, 0, len(absPaths))
	for _, p := range absPaths {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			tool.DefaultLogger.Debugf("[Archive] Dropping %s from selection", p)
			continue
		}
		valid = append(valid, p)
	}
	if len(valid) == 0 {
		return 0, ErrNoValidFiles
	}

	zw := zip.NewWriter(w)
	seen := map[string]int{}
	written := 0
	for _, p := range valid {
		name := uniqueName(seen, filepath.Base(p))
		if err := addEntry(zw, p, name); err != nil {
			// Stream already started: a vanished file is skipped, any
			// other failure aborts since the output is torn anyway.
			if os.IsNotExist(err) {
				tool.DefaultLogger.Warnf("[Archive] %s vanished mid-build, skipping", p)
				continue
			}
			zw.Close()
			return written, err
		}
		written++
	}
	if err := zw.Close(); err != nil {
		return written, err
	}
	return written, nil
}

func addEntry(zw *zip.Writer, absPath, name string) error {
	f, err := os.Open(absPath)
	if err != nil {
		return err
	}
	defer f.Close()

	entry, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(entry, f); err != nil {
		return err
	}
	return nil
}

// uniqueName reserves name within the archive, appending " (N)" before
// the extension on collision: photo.jpg, photo (1).jpg, photo (2).jpg.
func uniqueName(seen map[string]int, name string) string {
	if _, taken := seen[name]; !taken {
		seen[name] = 0
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for {
		seen[name]++
		candidate := fmt.Sprintf("%s (%d)%s", stem, seen[name], ext)
		if _, taken := seen[candidate]; !taken {
			seen[candidate] = 0
			return candidate
		}
	}
}
