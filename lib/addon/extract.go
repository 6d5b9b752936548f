package addon

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/wowa-cli/wowa/lib/archive"
)

// extract writes entries below root. All directories are created before
// the first file is written, so archives without explicit directory entries
// extract the same way as those with. It returns the distinct top-level
// paths that were written.
func extract(fs afero.Fs, root string, entries []archive.Entry) ([]Directory, error) {
	dirs := map[string]struct{}{}
	top := map[string]struct{}{}

	for _, e := range entries {
		top[strings.SplitN(e.Path, "/", 2)[0]] = struct{}{}
		if e.IsDir {
			dirs[e.Path] = struct{}{}
		} else if parent := path.Dir(e.Path); parent != "." {
			dirs[parent] = struct{}{}
		}
	}

	for _, dir := range sortedKeys(dirs) {
		if err := fs.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	for _, e := range entries {
		if e.IsDir {
			continue
		}
		if err := afero.WriteFile(fs, filepath.Join(root, filepath.FromSlash(e.Path)), e.Content, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", e.Path, err)
		}
	}

	names := sortedKeys(top)
	written := make([]Directory, len(names))
	for i, name := range names {
		written[i] = Directory{Name: name, Hash: DirectoryHash{Algorithm: HashNone}}
	}
	return written, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
