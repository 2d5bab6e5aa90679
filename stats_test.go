package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestSatAdd(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
		want uint64
	}{
		{"small values", 2, 3, 5},
		{"zero", 0, 0, 0},
		{"near max saturates", math.MaxUint64 - 1, 5, math.MaxUint64},
		{"at max stays at max", math.MaxUint64, 1, math.MaxUint64},
		{"both max", math.MaxUint64, math.MaxUint64, math.MaxUint64},
		{"max plus zero", math.MaxUint64, 0, math.MaxUint64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, satAdd(tt.a, tt.b))
		})
	}
}

func TestAggregateDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), 100)
	writeFile(t, filepath.Join(root, "b.txt"), 50)
	writeFile(t, filepath.Join(root, "nested", "c.txt"), 25)
	writeFile(t, filepath.Join(root, "nested", "deeper", "d.txt"), 25)

	stats := aggregateDir(root, nil)

	assert.Equal(t, root, stats.Path)
	assert.Equal(t, uint64(200), stats.TotalBytes)
	assert.Equal(t, uint64(4), stats.FileCount)
	// nested and nested/deeper; the walk root itself is not counted.
	assert.Equal(t, uint64(2), stats.DirCount)
}

func TestAggregateDirIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x", "one.bin"), 10)
	writeFile(t, filepath.Join(root, "y", "two.bin"), 20)

	first := aggregateDir(root, nil)
	second := aggregateDir(root, nil)
	assert.Equal(t, first, second)
}

func TestAggregateDirDoesNotFollowSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "big.bin"), 4096)
	writeFile(t, filepath.Join(root, "real.txt"), 10)

	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	stats := aggregateDir(root, nil)
	assert.Equal(t, uint64(10), stats.TotalBytes)
	assert.Equal(t, uint64(1), stats.FileCount)
	assert.Equal(t, uint64(0), stats.DirCount)
}

func TestAggregateDirExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep", "a.txt"), 100)
	writeFile(t, filepath.Join(root, "node_modules", "b.txt"), 5000)

	stats := aggregateDir(root, newExcludeSet([]string{"node_modules"}))
	assert.Equal(t, uint64(100), stats.TotalBytes)
	assert.Equal(t, uint64(1), stats.FileCount)
	assert.Equal(t, uint64(1), stats.DirCount)
}

func TestAggregateDirMissingPath(t *testing.T) {
	stats := aggregateDir(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	assert.Equal(t, uint64(0), stats.TotalBytes)
	assert.Equal(t, uint64(0), stats.FileCount)
	assert.Equal(t, uint64(0), stats.DirCount)
}

func TestImmediateSubdirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "alpha"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "beta"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, ".hidden"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "skipme"), 0o755))
	writeFile(t, filepath.Join(root, "not-a-dir.txt"), 1)

	t.Run("all visible", func(t *testing.T) {
		dirs := immediateSubdirs(root, true, nil)
		assert.Equal(t, []string{
			filepath.Join(root, ".hidden"),
			filepath.Join(root, "alpha"),
			filepath.Join(root, "beta"),
			filepath.Join(root, "skipme"),
		}, dirs)
	})

	t.Run("hidden filtered", func(t *testing.T) {
		dirs := immediateSubdirs(root, false, nil)
		assert.Equal(t, []string{
			filepath.Join(root, "alpha"),
			filepath.Join(root, "beta"),
			filepath.Join(root, "skipme"),
		}, dirs)
	})

	t.Run("excluded filtered", func(t *testing.T) {
		dirs := immediateSubdirs(root, true, newExcludeSet([]string{"skipme", ".hidden"}))
		assert.Equal(t, []string{
			filepath.Join(root, "alpha"),
			filepath.Join(root, "beta"),
		}, dirs)
	})

	t.Run("unreadable root is empty", func(t *testing.T) {
		assert.Empty(t, immediateSubdirs(filepath.Join(root, "missing"), true, nil))
	})
}

func TestNewExcludeSet(t *testing.T) {
	assert.Nil(t, newExcludeSet(nil))
	set := newExcludeSet([]string{" node_modules ", "", "vendor"})
	assert.True(t, set.contains("node_modules"))
	assert.True(t, set.contains("vendor"))
	assert.False(t, set.contains(""))
	assert.False(t, set.contains("src"))
}
