package browse

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hiakki/GhumaggerSnap/types"
)

func writeFile(t *testing.T, dir, name string, size int) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

// seedDir builds a directory with a mix of files, folders and hidden entries.
func seedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "beach.jpg", 300)
	writeFile(t, dir, "CatVideo.mp4", 5000)
	writeFile(t, dir, "notes.txt", 10)
	writeFile(t, dir, "scatter.png", 700)
	writeFile(t, dir, ".hidden.jpg", 1)
	sub := filepath.Join(dir, "albums")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "one.jpg", 1)
	writeFile(t, sub, ".secret", 1)
	if err := os.Mkdir(filepath.Join(dir, ".private"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestClassify(t *testing.T) {
	cases := map[string]string{
		"a.JPG":  KindImage,
		"b.webp": KindImage,
		"c.mkv":  KindVideo,
		"d.MOV":  KindVideo,
		"e.txt":  KindOther,
		"f":      KindOther,
	}
	for name, want := range cases {
		if got := Classify(name); got != want {
			t.Errorf("Classify(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestMimeFor(t *testing.T) {
	if got := MimeFor("a.png"); got != "image/png" {
		t.Errorf("MimeFor(a.png) = %q", got)
	}
	if got := MimeFor("blob"); got != "application/octet-stream" {
		t.Errorf("MimeFor(blob) = %q", got)
	}
}

func TestListHiddenSkipped(t *testing.T) {
	dir := seedDir(t)
	resp, err := List(dir, "", ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if resp.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", resp.TotalFiles)
	}
	if resp.TotalFolders != 1 {
		t.Errorf("TotalFolders = %d, want 1 (hidden dir skipped)", resp.TotalFolders)
	}
	for _, f := range resp.Files {
		if f.Name == ".hidden.jpg" {
			t.Error("hidden file listed")
		}
	}
	// hidden child does not count
	if resp.Folders[0].ItemCount != 1 {
		t.Errorf("ItemCount = %d, want 1", resp.Folders[0].ItemCount)
	}
}

func TestListSearch(t *testing.T) {
	dir := seedDir(t)
	resp, err := List(dir, "", ListOptions{Search: "cat"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	// CatVideo.mp4 and scatter.png both contain "cat" case-insensitively.
	if resp.TotalFiles != 2 {
		t.Fatalf("TotalFiles = %d, want 2: %+v", resp.TotalFiles, resp.Files)
	}
	// folders unaffected by search
	if resp.TotalFolders != 1 {
		t.Errorf("TotalFolders = %d, want 1", resp.TotalFolders)
	}
}

func TestListKindFilter(t *testing.T) {
	dir := seedDir(t)
	resp, err := List(dir, "", ListOptions{Kind: KindImage})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if resp.TotalFiles != 2 {
		t.Fatalf("TotalFiles = %d, want 2", resp.TotalFiles)
	}
	all, err := List(dir, "", ListOptions{Kind: KindAll})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if all.TotalFiles != 4 {
		t.Errorf("Kind=all TotalFiles = %d, want 4", all.TotalFiles)
	}
}

func TestListSortName(t *testing.T) {
	dir := seedDir(t)
	resp, err := List(dir, "", ListOptions{SortKey: SortName})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"beach.jpg", "CatVideo.mp4", "notes.txt", "scatter.png"}
	for i, name := range want {
		if resp.Files[i].Name != name {
			t.Fatalf("sort=name order %v, want %v", fileNames(resp), want)
		}
	}
}

func TestListSortSize(t *testing.T) {
	dir := seedDir(t)
	resp, err := List(dir, "", ListOptions{SortKey: SortSize})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for i := 1; i < len(resp.Files); i++ {
		if resp.Files[i-1].Size < resp.Files[i].Size {
			t.Fatalf("sort=size not non-increasing: %v", fileNames(resp))
		}
	}
}

func TestListSortNewestOldest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "old.jpg", 1)
	writeFile(t, dir, "new.jpg", 1)
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "old.jpg"), past, past); err != nil {
		t.Fatal(err)
	}

	newest, err := List(dir, "", ListOptions{SortKey: SortNewest})
	if err != nil {
		t.Fatal(err)
	}
	if newest.Files[0].Name != "new.jpg" {
		t.Errorf("sort=newest first = %q, want new.jpg", newest.Files[0].Name)
	}
	oldest, err := List(dir, "", ListOptions{SortKey: SortOldest})
	if err != nil {
		t.Fatal(err)
	}
	if oldest.Files[0].Name != "old.jpg" {
		t.Errorf("sort=oldest first = %q, want old.jpg", oldest.Files[0].Name)
	}
	// unrecognized key falls back to newest
	fallback, err := List(dir, "", ListOptions{SortKey: "bogus"})
	if err != nil {
		t.Fatal(err)
	}
	if fallback.Files[0].Name != "new.jpg" {
		t.Errorf("fallback sort first = %q, want new.jpg", fallback.Files[0].Name)
	}
}

func TestListFolderSortIndependent(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zoo", "Alpha", "mid"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	resp, err := List(dir, "", ListOptions{SortKey: SortSize})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Alpha", "mid", "zoo"}
	for i, name := range want {
		if resp.Folders[i].Name != name {
			t.Fatalf("folder order wrong at %d: got %q, want %q", i, resp.Folders[i].Name, name)
		}
	}
}

func TestListErrors(t *testing.T) {
	dir := seedDir(t)
	if _, err := List(filepath.Join(dir, "missing"), "missing", ListOptions{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing dir error = %v, want ErrNotFound", err)
	}
	if _, err := List(filepath.Join(dir, "notes.txt"), "notes.txt", ListOptions{}); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("file path error = %v, want ErrNotDirectory", err)
	}
}

func TestListEntryURLs(t *testing.T) {
	dir := seedDir(t)
	resp, err := List(dir, "trips/2024", ListOptions{SortKey: SortName})
	if err != nil {
		t.Fatal(err)
	}
	f := resp.Files[0] // beach.jpg
	if f.Path != "trips/2024/beach.jpg" {
		t.Errorf("Path = %q", f.Path)
	}
	if f.PreviewURL != "/api/files/preview?path=trips%2F2024%2Fbeach.jpg" {
		t.Errorf("PreviewURL = %q", f.PreviewURL)
	}
}

func TestStats(t *testing.T) {
	dir := seedDir(t)
	resp, err := Stats(dir)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if resp.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", resp.TotalFiles)
	}
	if resp.TotalSize != 300+5000+10+700 {
		t.Errorf("TotalSize = %d", resp.TotalSize)
	}
	if resp.ByType[KindImage] != 2 || resp.ByType[KindVideo] != 1 || resp.ByType[KindOther] != 1 {
		t.Errorf("ByType = %v", resp.ByType)
	}
}

func fileNames(resp *types.ListResponse) []string {
	names := make([]string, 0, len(resp.Files))
	for _, f := range resp.Files {
		names = append(names, f.Name)
	}
	return names
}
