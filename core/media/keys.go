package media

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Extension returns the lowercased extension of a filename without the dot,
// falling back to "bin" when the name carries none.
func Extension(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "bin"
	}
	return strings.ToLower(ext)
}

// SongKey builds the object key for a song file.
func SongKey(songID int64, filename string) string {
	return fmt.Sprintf("song_%d_%d.%s", songID, time.Now().UnixMilli(), Extension(filename))
}

// CoverKey builds the object key for a release cover.
func CoverKey(releaseID int64, filename string) string {
	return fmt.Sprintf("cover_release_%d_%d.%s", releaseID, time.Now().UnixMilli(), Extension(filename))
}
