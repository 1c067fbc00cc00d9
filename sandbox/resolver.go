// Package sandbox resolves untrusted client paths inside a fixed root.
// Every filesystem-touching operation in the API goes through Resolve
// first; nothing else may build absolute paths from client input.
package sandbox

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrForbiddenPath is returned when a client path escapes the root,
// whether by .. traversal, absolute-path injection or a symlink target.
var ErrForbiddenPath = errors.New("path escapes media root")

// Resolver maps client-supplied relative paths to absolute paths under
// a canonicalized root. Safe for concurrent use.
type Resolver struct {
	root string // canonical (symlink-resolved) absolute path
}

// New canonicalizes root and returns a resolver bound to it. The root
// must exist.
func New(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	return &Resolver{root: canonical}, nil
}

// Root returns the canonical root directory.
func (r *Resolver) Root() string {
	return r.root
}

// CleanRelPath normalizes a client path like "", ".", "/a/b", "a//b" to
// a slash-based relative path with no leading slash; "" means the root.
func CleanRelPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "." || p == "/" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p) // force absolute for stable cleaning
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// Resolve turns a client-supplied relative path into an absolute path
// guaranteed to lie within the root. An empty or root-referring input
// resolves to the root itself. When the candidate exists, its
// symlink-resolved form is checked against the canonical root, so a
// link pointing outside the tree fails the same as .. traversal.
func (r *Resolver) Resolve(rel string) (string, error) {
	rel = CleanRelPath(rel)
	if strings.Contains(rel, "\x00") {
		return "", ErrForbiddenPath
	}
	if rel == "" {
		return r.root, nil
	}
	abs := filepath.Clean(filepath.Join(r.root, filepath.FromSlash(rel)))
	if !r.contains(abs) {
		return "", ErrForbiddenPath
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing on disk at the cleaned path; later stat/open
			// reports not-found. A missing path cannot escape.
			return abs, nil
		}
		return "", err
	}
	if !r.contains(canonical) {
		return "", ErrForbiddenPath
	}
	return canonical, nil
}

func (r *Resolver) contains(abs string) bool {
	return abs == r.root || strings.HasPrefix(abs, r.root+string(filepath.Separator))
}

// RelFrom returns the slash-based path of abs relative to the root, for
// building entry paths and derived URLs in listings.
func (r *Resolver) RelFrom(abs string) string {
	rel, err := filepath.Rel(r.root, abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
