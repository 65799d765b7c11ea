package scanner

import "time"

// ModuleName is the directory name the scanner looks for.
const ModuleName = "node_modules"

// ManifestName is the project manifest checked next to each candidate.
const ManifestName = "package.json"

// DefaultMaxDepth bounds how many directory levels below the root are walked.
const DefaultMaxDepth = 6

// ModuleInfo describes one discovered node_modules directory.
type ModuleInfo struct {
	Path           string    `json:"path"`
	SizeBytes      int64     `json:"sizeBytes"`
	ModTime        time.Time `json:"modTime"`
	HasPackageJson bool      `json:"hasPackageJson"`
}

// ScanResult holds the outcome of a scan. A path appears in at most one of
// the two lists.
type ScanResult struct {
	Modules             []ModuleInfo `json:"modules"`
	SkippedNoPermission []string     `json:"skippedNoPermission"`
}

// Options configures a single scan.
type Options struct {
	RootPath string

	// Depth is the deepest level (root = 0) whose entries are inspected.
	// Candidates sitting directly in a directory at level Depth are still
	// found; nothing below that level is visited. Negative selects
	// DefaultMaxDepth.
	Depth int

	// ExcludeGlobs are extra entry-name patterns to skip (see ShouldExclude).
	ExcludeGlobs []string

	// FollowSymlinks enables traversal through symlinked directories. Each
	// directory is visited once by its resolved path, so a project reachable
	// through several aliases is reported once, under the first alias walked.
	FollowSymlinks bool

	// Progress is notified once per visited directory. Nil means no-op.
	Progress ProgressObserver
}

// DefaultOptions returns options for scanning root with default limits.
func DefaultOptions(root string) Options {
	return Options{
		RootPath: root,
		Depth:    DefaultMaxDepth,
	}
}

// ProgressObserver receives advisory progress while a scan runs.
// Implementations must return quickly and must not panic; the scan never
// depends on anything an observer does.
type ProgressObserver interface {
	OnDirectory(path string, found int)
}

// ProgressFunc adapts a plain function to ProgressObserver.
type ProgressFunc func(path string, found int)

// OnDirectory calls f.
func (f ProgressFunc) OnDirectory(path string, found int) {
	f(path, found)
}

type nopProgress struct{}

func (nopProgress) OnDirectory(string, int) {}
