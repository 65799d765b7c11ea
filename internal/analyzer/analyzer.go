// Package analyzer scores, filters and orders scanned node_modules directories.
package analyzer

import (
	"math"
	"path/filepath"
	"sort"
	"time"

	"github.com/blackwell-systems/modkill/internal/scanner"
)

// Analyzer computes priority scores for scanned modules. It performs no I/O
// and keeps no state between calls.
type Analyzer struct {
	weights Weights
}

// New creates an Analyzer. A zero Weights value selects DefaultWeights.
func New(weights Weights) *Analyzer {
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	return &Analyzer{weights: weights}
}

// Analyze scores every module, drops those failing the filters in opts, and
// returns the rest ordered by opts.SortBy. The input slice is not modified.
func (a *Analyzer) Analyze(modules []scanner.ModuleInfo, opts Options) []AnalyzedModule {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	minBytes := opts.MinSizeMB * bytesPerMB

	result := make([]AnalyzedModule, 0, len(modules))
	for _, m := range modules {
		am := AnalyzedModule{
			ModuleInfo: m,
			AgeDays:    ageDays(now, m.ModTime),
		}
		a.weights.score(&am)

		if am.AgeDays < opts.MinAgeDays || float64(am.SizeBytes) < minBytes {
			continue
		}
		if opts.ExcludeOrphans && !am.HasPackageJson {
			continue
		}
		result = append(result, am)
	}

	sortModules(result, opts.SortBy)
	return result
}

// ageDays returns the non-negative age of mtime in fractional days.
func ageDays(now, mtime time.Time) float64 {
	ms := float64(now.Sub(mtime).Milliseconds())
	return math.Max(0, ms/msPerDay)
}

func sortModules(modules []AnalyzedModule, key SortKey) {
	var less func(a, b *AnalyzedModule) bool

	switch key {
	case SortByAge:
		less = func(a, b *AnalyzedModule) bool { return a.AgeDays > b.AgeDays }
	case SortByName:
		less = func(a, b *AnalyzedModule) bool {
			na, nb := filepath.Base(a.Path), filepath.Base(b.Path)
			if na != nb {
				return na < nb
			}
			// Candidates share the final segment, so order by project directory.
			return filepath.Base(filepath.Dir(a.Path)) < filepath.Base(filepath.Dir(b.Path))
		}
	case SortByPath:
		less = func(a, b *AnalyzedModule) bool { return a.Path < b.Path }
	default:
		less = func(a, b *AnalyzedModule) bool { return a.SizeBytes > b.SizeBytes }
	}

	sort.SliceStable(modules, func(i, j int) bool {
		return less(&modules[i], &modules[j])
	})
}
