package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Sizer computes the total byte size of a directory tree.
// Only regular files are counted; symlinks are neither followed nor counted.
type Sizer struct {
	workers int
}

// NewSizer creates a Sizer that sizes up to workers top-level subtrees in
// parallel. A value <= 0 selects runtime.NumCPU().
func NewSizer(workers int) *Sizer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Sizer{workers: workers}
}

// Size returns the number of bytes under path. It never fails: entries that
// cannot be read contribute 0, and an unreadable top-level directory sizes as 0.
// The result is a best-effort lower bound.
func (s *Sizer) Size(path string) int64 {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}

	var total atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())
		switch {
		case entry.Type().IsRegular():
			total.Add(entrySize(entry))
		case entry.IsDir():
			g.Go(func() error {
				total.Add(treeSize(full))
				return nil
			})
		}
	}

	_ = g.Wait()
	return total.Load()
}

// DirSize sizes path sequentially.
func DirSize(path string) int64 {
	return treeSize(path)
}

func treeSize(path string) int64 {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}

	var total int64
	for _, entry := range entries {
		switch {
		case entry.Type().IsRegular():
			total += entrySize(entry)
		case entry.IsDir():
			total += treeSize(filepath.Join(path, entry.Name()))
		}
	}
	return total
}

func entrySize(entry os.DirEntry) int64 {
	return TryOrDefault(func() (int64, error) {
		info, err := entry.Info()
		if err != nil {
			return 0, err
		}
		return info.Size(), nil
	}, 0)
}
