package browse

import (
	"os"
	"strings"

	"github.com/hiakki/GhumaggerSnap/types"
)

// Stats aggregates one directory level: regular non-hidden files only,
// total byte size and a per-kind count.
func Stats(absDir string) (*types.StatsResponse, error) {
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
			return &types.StatsResponse{ByType: map[string]int{}}, nil
		}
		return nil, err
	}

	resp := &types.StatsResponse{ByType: map[string]int{}}
	for _, entry := range dirEntries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		resp.TotalFiles++
		resp.TotalSize += info.Size()
		resp.ByType[Classify(name)]++
	}
	return resp, nil
}
