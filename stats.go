package main

import (
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// DirStats is the aggregate for one immediate child directory of the current
// root. Values are computed in a single walk and never mutated afterwards; a
// rescan produces a fresh list rather than updating entries in place.
type DirStats struct {
	Path       string
	TotalBytes uint64
	FileCount  uint64
	DirCount   uint64
}

// Name returns the final path element for display.
func (d DirStats) Name() string {
	return filepath.Base(d.Path)
}

// satAdd adds two counters without wrapping. Very large trees (or hostile
// sparse files) pin at MaxUint64 instead of silently overflowing.
func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

type excludeSet map[string]struct{}

func newExcludeSet(names []string) excludeSet {
	if len(names) == 0 {
		return nil
	}
	set := excludeSet{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

func (s excludeSet) contains(name string) bool {
	_, ok := s[name]
	return ok
}

// aggregateDir walks the whole subtree under dir and sums byte size, file
// count, and directory count. Symlinks are never followed (WalkDir does not
// descend into them), and unreadable entries are skipped rather than
// reported: the result is always a best-effort total, never an error. The
// walk touches no shared state, so any number of aggregations may run
// concurrently.
func aggregateDir(dir string, excl excludeSet) DirStats {
	stats := DirStats{Path: dir}

	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if entry != nil && entry.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if path == dir {
				return nil
			}
			if excl.contains(entry.Name()) {
				return filepath.SkipDir
			}
			stats.DirCount = satAdd(stats.DirCount, 1)
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			return nil
		}
		stats.TotalBytes = satAdd(stats.TotalBytes, uint64(info.Size()))
		stats.FileCount = satAdd(stats.FileCount, 1)
		return nil
	})

	return stats
}

// immediateSubdirs lists the child directories of root, one level deep.
// An unreadable root yields an empty list, matching the scan contract that
// enumeration problems degrade the listing instead of failing it.
func immediateSubdirs(root string, showHidden bool, excl excludeSet) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if excl.contains(name) {
			continue
		}
		dirs = append(dirs, filepath.Join(root, name))
	}
	return dirs
}
