package types

import "time"

// FolderEntry is a single subdirectory in a listing.
type FolderEntry struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"` // relative to the media root, slash separated
	ItemCount  int       `json:"item_count"`
	ModifiedAt time.Time `json:"modified_at"`
}

// FileEntry is a single regular file in a listing.
type FileEntry struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	FileType     string    `json:"file_type"` // image | video | other
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	ModifiedAt   time.Time `json:"modified_at"`
	ThumbnailURL string    `json:"thumbnail_url"`
	PreviewURL   string    `json:"preview_url"`
	DownloadURL  string    `json:"download_url"`
}

// ListResponse is the body of GET /api/files.
type ListResponse struct {
	Path         string        `json:"path"`
	Folders      []FolderEntry `json:"folders"`
	Files        []FileEntry   `json:"files"`
	TotalFolders int           `json:"total_folders"`
	TotalFiles   int           `json:"total_files"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	TotalFiles int            `json:"total_files"`
	TotalSize  int64          `json:"total_size"`
	ByType     map[string]int `json:"by_type"`
}

// BulkDownloadRequest is the body of POST /api/files/bulk-download.
type BulkDownloadRequest struct {
	Paths []string `json:"paths"`
}
