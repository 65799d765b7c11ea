package analyzer

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/modkill/internal/scanner"
)

// SortKey selects the order of analyzed modules.
type SortKey string

const (
	SortBySize SortKey = "size" // largest first
	SortByAge  SortKey = "age"  // oldest first
	SortByName SortKey = "name" // final path segment, ascending
	SortByPath SortKey = "path" // full path, ascending
)

// SortKeys lists every accepted key in display order.
var SortKeys = []SortKey{SortBySize, SortByAge, SortByName, SortByPath}

// ParseSortKey converts s into a SortKey. The empty string selects SortBySize.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortBySize, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid sort key %q: must be one of: size, age, name, path", s)
}

// AnalyzedModule is a ModuleInfo with derived age and priority score.
type AnalyzedModule struct {
	scanner.ModuleInfo

	AgeDays float64 `json:"ageDays"`
	Score   float64 `json:"score"`

	// Weighted score components; Score is their sum.
	AgeScore    float64 `json:"-"`
	SizeScore   float64 `json:"-"`
	OrphanScore float64 `json:"-"`
}

// Options controls filtering and ordering.
type Options struct {
	// MinAgeDays drops modules younger than this many days.
	MinAgeDays float64

	// MinSizeMB drops modules smaller than this many MiB.
	MinSizeMB float64

	// ExcludeOrphans drops modules whose parent has no package.json.
	ExcludeOrphans bool

	// SortBy defaults to SortBySize.
	SortBy SortKey

	// Now is the reference time for ages. Zero means time.Now().
	Now time.Time
}
