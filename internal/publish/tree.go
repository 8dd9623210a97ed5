package publish

import (
	"fmt"
	"os"
	"path/filepath"

	"longview/internal/fileutil"
)

// ignoredNames are version control entries never copied or removed.
var ignoredNames = map[string]struct{}{"CVS": {}, "RCS": {}, ".git": {}, ".svn": {}, "tags": {}}

// Changes counts the entries UpdateTree touched.
type Changes struct {
	Updated int
	Added   int
	Removed int
}

func (c Changes) add(other Changes) Changes {
	return Changes{Updated: c.Updated + other.Updated, Added: c.Added + other.Added, Removed: c.Removed + other.Removed}
}

// UpdateTree makes dst match src. Files whose bytes differ are replaced
// atomically, entries only in src are copied, and entries only in dst are
// removed. Unchanged files keep their modification times.
func UpdateTree(src, dst string) (Changes, error) {
	var changes Changes
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return changes, fmt.Errorf("create %s: %w", dst, err)
	}
	srcEntries, err := readDir(src)
	if err != nil {
		return changes, err
	}
	dstEntries, err := readDir(dst)
	if err != nil {
		return changes, err
	}

	for name, srcEntry := range srcEntries {
		from, to := filepath.Join(src, name), filepath.Join(dst, name)
		dstEntry, exists := dstEntries[name]
		if exists && dstEntry.IsDir() != srcEntry.IsDir() {
			if err := os.RemoveAll(to); err != nil {
				return changes, fmt.Errorf("remove %s: %w", to, err)
			}
			changes.Removed++
			exists = false
		}
		switch {
		case srcEntry.IsDir() && exists:
			sub, err := UpdateTree(from, to)
			changes = changes.add(sub)
			if err != nil {
				return changes, err
			}
		case srcEntry.IsDir():
			if err := copyTree(from, to); err != nil {
				return changes, err
			}
			changes.Added++
		case exists:
			same, err := fileutil.SameContents(from, to)
			if err != nil {
				return changes, err
			}
			if same {
				continue
			}
			if err := fileutil.ReplaceFile(from, to, 0o644); err != nil {
				return changes, err
			}
			changes.Updated++
		default:
			if err := fileutil.ReplaceFile(from, to, 0o644); err != nil {
				return changes, err
			}
			changes.Added++
		}
	}

	for name := range dstEntries {
		if _, ok := srcEntries[name]; ok {
			continue
		}
		path := filepath.Join(dst, name)
		if err := os.RemoveAll(path); err != nil {
			return changes, fmt.Errorf("remove %s: %w", path, err)
		}
		changes.Removed++
	}
	return changes, nil
}

func readDir(dir string) (map[string]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	out := make(map[string]os.DirEntry, len(entries))
	for _, entry := range entries {
		if _, skip := ignoredNames[entry.Name()]; skip {
			continue
		}
		out[entry.Name()] = entry
	}
	return out, nil
}

// copyTree copies src into dst recursively, merging with anything already
// in dst.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if _, skip := ignoredNames[d.Name()]; skip && path != src {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := fileutil.CopyFile(path, target); err != nil {
			return fmt.Errorf("copy %s: %w", path, err)
		}
		return nil
	})
}
