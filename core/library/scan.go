package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Orphans walks the library root and returns every file on disk that the
// database does not know about. The removed/ subtree is skipped; files there
// are expected to be unknown.
func Orphans(root string, known map[string]bool) ([]string, error) {
	removedPrefix := filepath.Join(root, "removed") + string(os.PathSeparator)

	var orphans []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasPrefix(path, removedPrefix) {
			return nil
		}
		if _, ok := known[path]; !ok {
			orphans = append(orphans, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk library root %s: %w", root, err)
	}
	sort.Strings(orphans)
	return orphans, nil
}

// Disabled returns every unverified database row whose file still exists on
// disk. Those files are dead weight: the scanner saw them once but they no
// longer air anywhere.
func Disabled(known map[string]bool) []string {
	var disabled []string
	for filename, verified := range known {
		if verified {
			continue
		}
		if _, err := os.Stat(filename); err == nil {
			disabled = append(disabled, filename)
		}
	}
	sort.Strings(disabled)
	return disabled
}
