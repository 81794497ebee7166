package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kennygrant/sanitize"
)

// mapPath is where the .osu file with the given md5 is kept.
func mapPath(md5 string) string {
	return filepath.Join(cf.MapsDir, sanitize.BaseName(md5)+".osu")
}

func downloadOsuFile(beatmapID int, destFileName string) ([]byte, error) {
	websiteResp, err := http.Get(fmt.Sprintf("https://osu.ppy.sh/osu/%d", beatmapID))
	if err != nil {
		return nil, err
	}
	defer websiteResp.Body.Close()
	if websiteResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download beatmap %d: status %s", beatmapID, websiteResp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(websiteResp.Body, maxOsuFileSize))
	if err != nil {
		return nil, fmt.Errorf("download beatmap %d: %w", beatmapID, err)
	}
	// copy all data from .osu file retrieved with the osu! website to the local file
	if err := os.WriteFile(destFileName, data, 0o644); err != nil {
		return nil, err
	}
	return data, nil
}
