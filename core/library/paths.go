// Package library implements filesystem operations against the scanned
// music library: relocating removed songs, computing target paths for new
// remixes and reconciling the tree against the database.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wavelib/core/mp3"
	"wavelib/logger"
)

// RemovedLocation computes where a song file goes when it is removed: the
// same relative path, under the removed/ subtree of the library root.
func RemovedLocation(root, filename string) (string, error) {
	rel, err := filepath.Rel(root, filename)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path for %s: %w", filename, err)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("file %s is outside the library root %s", filename, root)
	}
	return filepath.Join(root, "removed", rel), nil
}

// RemixTargetPath computes the library path for a newly fetched remix:
// <root>/ocr-all/<first letter>/<album>/<title>.mp3, with album and title
// sanitized. Albums starting with a non-letter shard under "0". Returns an
// error naming the smallest offending character when sanitization leaves
// anything outside ASCII letters and digits.
func RemixTargetPath(root, album, title string) (string, error) {
	safeAlbum := mp3.MakeSafe(album)
	if bad := mp3.BadChars(safeAlbum); len(bad) > 0 {
		return "", fmt.Errorf("unsupported character in album: %q [%d]", bad[0], bad[0])
	}
	safeTitle := mp3.MakeSafe(title)
	if bad := mp3.BadChars(safeTitle); len(bad) > 0 {
		return "", fmt.Errorf("unsupported character in title: %q [%d]", bad[0], bad[0])
	}
	if safeAlbum == "" {
		return "", fmt.Errorf("album name is empty after sanitization")
	}
	if safeTitle == "" {
		return "", fmt.Errorf("title is empty after sanitization")
	}

	firstLetter := strings.ToLower(safeAlbum[:1])
	if firstLetter[0] < 'a' || firstLetter[0] > 'z' {
		firstLetter = "0"
	}
	return filepath.Join(root, "ocr-all", firstLetter, safeAlbum, safeTitle+".mp3"), nil
}

// RemovalNote records who removed a song, when and why.
type RemovalNote struct {
	SongID    int64
	RemovedBy string
	RemoverID string
	Reason    string
}

// ErrTargetExists is returned by RemoveSong when a file already sits at the
// computed removed location.
type ErrTargetExists struct {
	Target string
}

func (e *ErrTargetExists) Error() string {
	return fmt.Sprintf("there is already a file at %s", e.Target)
}

// RemoveSong relocates the song file into the removed/ subtree and writes a
// sidecar .txt note beside it. The move is a plain rename; if the note write
// fails afterwards the rename is not rolled back, the failure is only
// logged and returned.
func RemoveSong(root, filename string, note RemovalNote) (string, error) {
	newLoc, err := RemovedLocation(root, filename)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(newLoc); err == nil {
		return "", &ErrTargetExists{Target: newLoc}
	}

	if err := os.MkdirAll(filepath.Dir(newLoc), 0755); err != nil {
		return "", fmt.Errorf("failed to create removed directory: %w", err)
	}
	if err := os.Rename(filename, newLoc); err != nil {
		return "", fmt.Errorf("failed to move %s to %s: %w", filename, newLoc, err)
	}
	logger.Info("Moved removed song",
		logger.Int64("songID", note.SongID),
		logger.String("from", filename),
		logger.String("to", newLoc))

	noteText := fmt.Sprintf(`Song ID: %d
Original location: %s
Removed: %s
Removed by: %s (%s)
Removal reason: %s
`, note.SongID, filename, time.Now().UTC().Format(time.RFC3339), note.RemovedBy, note.RemoverID, note.Reason)

	noteLoc := strings.TrimSuffix(newLoc, filepath.Ext(newLoc)) + ".txt"
	if err := os.WriteFile(noteLoc, []byte(noteText), 0644); err != nil {
		logger.Error("Failed to write removal note", logger.String("note", noteLoc), logger.ErrorField(err))
		return newLoc, fmt.Errorf("song moved but note write failed: %w", err)
	}
	return newLoc, nil
}
