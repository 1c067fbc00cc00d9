package browse

import (
	"errors"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/hiakki/GhumaggerSnap/tool"
	"github.com/hiakki/GhumaggerSnap/types"
)

var (
	ErrNotFound     = errors.New("directory not found")
	ErrNotDirectory = errors.New("path is not a directory")
)

// File sort keys accepted by List.
const (
	SortName   = "name"
	SortNewest = "newest"
	SortOldest = "oldest"
	SortSize   = "size"
)

// ListOptions filter and order the file half of a listing. Folders are
// always sorted by name and never filtered by search or kind.
type ListOptions struct {
	Search  string // case-insensitive substring match on filename
	Kind    string // image|video|other, or "all"/empty for no filter
	SortKey string // name|newest|oldest|size, fallback newest
}

// List scans exactly one directory level. absDir must come from the
// sandbox resolver; relDir is the matching root-relative slash path used
// to build entry paths and derived URLs. Hidden entries (leading dot)
// never appear, not even in folder child counts. A permission failure on
// the scan yields an empty listing rather than an error so one opaque
// subtree does not break the whole browser.
func List(absDir, relDir string, opts ListOptions) (*types.ListResponse, error) {
	stat, err := os.Stat(absDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !stat.IsDir() {
		return nil, ErrNotDirectory
	}

	dirEntries, err := os.ReadDir(absDir)
	if err != nil {
		if os.IsPermission(err) {
			tool.DefaultLogger.Warnf("[Browse] Permission denied scanning %s", absDir)
			return emptyListing(relDir), nil
		}
		return nil, err
	}

	resp := emptyListing(relDir)
	search := strings.ToLower(opts.Search)

	for _, entry := range dirEntries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		childRel := path.Join(relDir, name)
		info, err := entry.Info()
		if err != nil {
			tool.DefaultLogger.Debugf("[Browse] Skipping unreadable entry %s: %v", childRel, err)
			continue
		}

		if entry.IsDir() {
			resp.Folders = append(resp.Folders, types.FolderEntry{
				Name:       name,
				Path:       childRel,
				ItemCount:  childCount(absDir, name),
				ModifiedAt: info.ModTime(),
			})
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(name), search) {
			continue
		}
		kind := Classify(name)
		if opts.Kind != "" && opts.Kind != KindAll && kind != opts.Kind {
			continue
		}
		escaped := url.QueryEscape(childRel)
		resp.Files = append(resp.Files, types.FileEntry{
			Name:         name,
			Path:         childRel,
			FileType:     kind,
			MimeType:     MimeFor(name),
			Size:         info.Size(),
			ModifiedAt:   info.ModTime(),
			ThumbnailURL: "/api/files/thumbnail?path=" + escaped,
			PreviewURL:   "/api/files/preview?path=" + escaped,
			DownloadURL:  "/api/files/download?path=" + escaped,
		})
	}

	sortFolders(resp.Folders)
	sortFiles(resp.Files, opts.SortKey)
	resp.TotalFolders = len(resp.Folders)
	resp.TotalFiles = len(resp.Files)
	return resp, nil
}

func emptyListing(relDir string) *types.ListResponse {
	return &types.ListResponse{
		Path:    relDir,
		Folders: []types.FolderEntry{},
		Files:   []types.FileEntry{},
	}
}

// childCount is the shallow non-hidden entry count of a subdirectory.
// Unreadable subdirectories count as empty.
func childCount(absDir, name string) int {
	children, err := os.ReadDir(absDir + string(os.PathSeparator) + name)
	if err != nil {
		return 0
	}
	n := 0
	for _, child := range children {
		if !strings.HasPrefix(child.Name(), ".") {
			n++
		}
	}
	return n
}

func sortFolders(folders []types.FolderEntry) {
	sort.SliceStable(folders, func(i, j int) bool {
		return strings.ToLower(folders[i].Name) < strings.ToLower(folders[j].Name)
	})
}

func sortFiles(files []types.FileEntry, sortKey string) {
	switch sortKey {
	case SortName:
		sort.SliceStable(files, func(i, j int) bool {
			return strings.ToLower(files[i].Name) < strings.ToLower(files[j].Name)
		})
	case SortOldest:
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].ModifiedAt.Before(files[j].ModifiedAt)
		})
	case SortSize:
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].Size > files[j].Size
		})
	default: // newest, and the fallback for unrecognized keys
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].ModifiedAt.After(files[j].ModifiedAt)
		})
	}
}
