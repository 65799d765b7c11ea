package config

import (
	"github.com/blackwell-systems/modkill/internal/analyzer"
	"github.com/blackwell-systems/modkill/internal/scanner"
)

// DefaultAutoMinAge is the minimum age in days used by the auto command when
// none is configured.
const DefaultAutoMinAge = 30

// Settings is the fully resolved configuration handed to the pipeline.
type Settings struct {
	Path           string
	Depth          int
	Exclude        []string
	MinAgeDays     float64
	MinSizeMB      float64
	Sort           analyzer.SortKey
	Yes            bool
	Verbose        bool
	JSON           bool
	UseTrash       bool
	FollowSymlinks bool
	IncludeOrphans bool
	Concurrency    int
	Scoring        analyzer.Weights

	// MinAgeSet reports whether any layer set MinAgeDays explicitly.
	MinAgeSet bool

	// Source is the config file that contributed, if any.
	Source string
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Path:           ".",
		Depth:          scanner.DefaultMaxDepth,
		Sort:           analyzer.SortBySize,
		UseTrash:       true,
		IncludeOrphans: true,
		Concurrency:    1,
		Scoring:        analyzer.DefaultWeights(),
	}
}

// Resolve applies layers over base in order; later layers win. Exclude
// patterns accumulate across layers instead of replacing each other. Layers
// are expected to be validated already.
func Resolve(base Settings, layers ...*Layer) Settings {
	s := base
	s.Exclude = append([]string(nil), base.Exclude...)

	for _, l := range layers {
		if l == nil {
			continue
		}
		if l.MinAge != nil {
			s.MinAgeDays = *l.MinAge
			s.MinAgeSet = true
		}
		if l.MinSize != nil {
			s.MinSizeMB = *l.MinSize
		}
		if l.Sort != nil {
			s.Sort = analyzer.SortKey(*l.Sort)
		}
		if l.Depth != nil {
			s.Depth = *l.Depth
		}
		if l.Yes != nil {
			s.Yes = *l.Yes
		}
		if l.Verbose != nil {
			s.Verbose = *l.Verbose
		}
		if l.JSON != nil {
			s.JSON = *l.JSON
		}
		if l.Path != nil && *l.Path != "" {
			s.Path = *l.Path
		}
		if l.UseTrash != nil {
			s.UseTrash = *l.UseTrash
		}
		if l.FollowSymlinks != nil {
			s.FollowSymlinks = *l.FollowSymlinks
		}
		if l.IncludeOrphans != nil {
			s.IncludeOrphans = *l.IncludeOrphans
		}
		if l.Concurrency != nil {
			s.Concurrency = *l.Concurrency
		}
		s.Scoring = l.Scoring.apply(s.Scoring)
		s.Exclude = append(s.Exclude, l.Exclude...)
	}

	return s
}

// ScanOptions converts s into scanner options.
func (s Settings) ScanOptions() scanner.Options {
	return scanner.Options{
		RootPath:       s.Path,
		Depth:          s.Depth,
		ExcludeGlobs:   s.Exclude,
		FollowSymlinks: s.FollowSymlinks,
	}
}

// AnalyzeOptions converts s into analyzer options.
func (s Settings) AnalyzeOptions() analyzer.Options {
	return analyzer.Options{
		MinAgeDays:     s.MinAgeDays,
		MinSizeMB:      s.MinSizeMB,
		ExcludeOrphans: !s.IncludeOrphans,
		SortBy:         s.Sort,
	}
}
