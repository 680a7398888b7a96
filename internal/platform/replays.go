package platform

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Replay file globs, relative to the replay folder
const (
	ReplayExtension = ".slp"
	ReplayGlob      = "*" + ReplayExtension
	RecursiveGlob   = "**/" + ReplayGlob
)

// ReplayPattern returns the glob that selects replays in folder
func ReplayPattern(folder string, includeSubfolders bool) string {
	if includeSubfolders {
		return path.Join(filepath.ToSlash(folder), RecursiveGlob)
	}
	return path.Join(filepath.ToSlash(folder), ReplayGlob)
}

// FindReplays returns the replay files in folder, descending into
// subfolders when includeSubfolders is set. Results are regular files only,
// sorted name by name within each directory level. A missing folder yields an empty list.
func FindReplays(folder string, includeSubfolders bool) ([]string, error) {
	folder = ExpandHome(strings.TrimSpace(folder))
	if folder == "" {
		return []string{}, nil
	}

	pattern := ReplayGlob
	if includeSubfolders {
		pattern = RecursiveGlob
	}

	// Glob relative to the folder so meta characters in its name are not interpreted.
	matches, err := doublestar.Glob(os.DirFS(folder), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", ReplayPattern(folder, includeSubfolders), err)
	}

	sort.Slice(matches, func(i, j int) bool {
		return lessByComponents(matches[i], matches[j])
	})

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Join(folder, filepath.FromSlash(m)))
	}
	return files, nil
}

// lessByComponents orders slash-separated paths directory by directory,
// so "a/x.slp" sorts before "a-b/x.slp"
func lessByComponents(a, b string) bool {
	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}

// IsReplayFile reports whether name has the replay extension
func IsReplayFile(name string) bool {
	return filepath.Ext(name) == ReplayExtension
}
