// Package scanner discovers node_modules directories under a root path.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/blackwell-systems/modkill/internal/fsutil"
)

// ErrNotDirectory is returned when the scan root is not a directory.
var ErrNotDirectory = errors.New("scan root is not a directory")

// Scanner walks a directory tree and collects node_modules candidates.
type Scanner struct {
	sizer  *fsutil.Sizer
	logger zerolog.Logger
}

// New creates a Scanner. Diagnostics about abandoned subtrees and dropped
// candidates are written to logger at debug level.
func New(logger zerolog.Logger) *Scanner {
	return &Scanner{
		sizer:  fsutil.NewSizer(0),
		logger: logger,
	}
}

// walk carries the per-scan state.
type walk struct {
	*Scanner
	opts    Options
	limit   int
	result  *ScanResult
	visited map[string]bool
}

// Scan walks opts.RootPath and returns every reachable node_modules
// directory. Filesystem errors below the root never fail the scan: an
// unreadable directory is abandoned and a candidate that cannot be probed is
// dropped. Only a root that does not exist or is not a directory is an error.
// Reported paths are absolute.
func (s *Scanner) Scan(opts Options) (*ScanResult, error) {
	root, err := filepath.Abs(opts.RootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scan root: %w", err)
	}
	opts.RootPath = root

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	if opts.Progress == nil {
		opts.Progress = nopProgress{}
	}

	w := &walk{
		Scanner: s,
		opts:    opts,
		limit:   opts.Depth,
		result: &ScanResult{
			Modules:             []ModuleInfo{},
			SkippedNoPermission: []string{},
		},
	}
	if w.limit < 0 {
		w.limit = DefaultMaxDepth
	}
	if opts.FollowSymlinks {
		w.visited = make(map[string]bool)
	}

	w.dir(root, 0)
	return w.result, nil
}

// dir inspects every entry of path before descending into any of them.
func (w *walk) dir(path string, depth int) {
	if depth > w.limit {
		return
	}

	if w.visited != nil {
		real, err := filepath.EvalSymlinks(path)
		if err != nil || w.visited[real] {
			return
		}
		w.visited[real] = true
	}

	w.opts.Progress.OnDirectory(path, len(w.result.Modules))

	entries, err := os.ReadDir(path)
	if err != nil {
		w.logger.Debug().Err(err).Str("path", path).Msg("abandoning unreadable directory")
		return
	}

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if ShouldExclude(name, w.opts.ExcludeGlobs) {
			continue
		}

		full := filepath.Join(path, name)
		if !w.isDir(entry, full) {
			continue
		}

		if name == ModuleName {
			w.inspect(full)
			continue
		}
		subdirs = append(subdirs, full)
	}

	for _, sub := range subdirs {
		w.dir(sub, depth+1)
	}
}

// isDir reports whether entry is a directory to consider. Symlinks count only
// when following is enabled and they resolve to a directory.
func (w *walk) isDir(entry fs.DirEntry, full string) bool {
	if entry.Type()&fs.ModeSymlink != 0 {
		if !w.opts.FollowSymlinks {
			return false
		}
		return fsutil.TryOrDefault(func() (bool, error) {
			info, err := os.Stat(full)
			if err != nil {
				return false, err
			}
			return info.IsDir(), nil
		}, false)
	}
	return entry.IsDir()
}

// inspect probes a candidate and records it. Its contents are never walked.
func (w *walk) inspect(path string) {
	info, err := os.Stat(path)
	if err != nil {
		w.logger.Debug().Err(err).Str("path", path).Msg("dropping candidate")
		return
	}

	if !fsutil.CanWrite(path) {
		w.result.SkippedNoPermission = append(w.result.SkippedNoPermission, path)
		return
	}

	w.result.Modules = append(w.result.Modules, ModuleInfo{
		Path:           path,
		SizeBytes:      w.sizer.Size(path),
		ModTime:        info.ModTime(),
		HasPackageJson: hasManifest(filepath.Dir(path)),
	})
}

func hasManifest(dir string) bool {
	return fsutil.TryOrDefault(func() (bool, error) {
		_, err := os.Stat(filepath.Join(dir, ManifestName))
		return err == nil, err
	}, false)
}
