package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/modkill/internal/analyzer"
)

// FileNames are the per-project config file names, checked in order in each
// directory from the scan root upward.
var FileNames = []string{".modkillrc", ".modkillrc.json"}

// GlobalFileName is the config file looked up in Dir() when no project file
// is found.
const GlobalFileName = "config.json"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Layer is one source of settings. A nil field means "not set here".
type Layer struct {
	MinAge         *float64 `json:"minAge,omitempty"`
	MinSize        *float64 `json:"minSize,omitempty"`
	Sort           *string  `json:"sort,omitempty"`
	Depth          *int     `json:"depth,omitempty"`
	Yes            *bool    `json:"yes,omitempty"`
	Verbose        *bool    `json:"verbose,omitempty"`
	JSON           *bool    `json:"json,omitempty"`
	Exclude        []string `json:"exclude,omitempty"`
	Path           *string  `json:"path,omitempty"`
	UseTrash       *bool    `json:"useTrash,omitempty"`
	FollowSymlinks *bool    `json:"followSymlinks,omitempty"`
	IncludeOrphans *bool    `json:"includeOrphans,omitempty"`
	Concurrency    *int     `json:"concurrency,omitempty"`
	Scoring        *Scoring `json:"scoring,omitempty"`
}

// Scoring overrides individual scoring constants.
type Scoring struct {
	AgeWeight     *float64 `json:"ageWeight,omitempty"`
	SizeWeight    *float64 `json:"sizeWeight,omitempty"`
	OrphanWeight  *float64 `json:"orphanWeight,omitempty"`
	AgeCap        *float64 `json:"ageCap,omitempty"`
	SizeCap       *float64 `json:"sizeCap,omitempty"`
	SizeDivisorMB *float64 `json:"sizeDivisorMB,omitempty"`
	OrphanBonus   *float64 `json:"orphanBonus,omitempty"`
}

func (s *Scoring) apply(w analyzer.Weights) analyzer.Weights {
	if s == nil {
		return w
	}
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&w.Age, s.AgeWeight)
	set(&w.Size, s.SizeWeight)
	set(&w.Orphan, s.OrphanWeight)
	set(&w.AgeCap, s.AgeCap)
	set(&w.SizeCap, s.SizeCap)
	set(&w.SizeDivisorMB, s.SizeDivisorMB)
	set(&w.OrphanBonus, s.OrphanBonus)
	return w
}

// FindFile returns the first project config file found in startDir or any of
// its parents, falling back to the global config file. It returns "" when
// there is none.
func FindFile(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err == nil {
		for {
			for _, name := range FileNames {
				p := filepath.Join(dir, name)
				if info, err := os.Stat(p); err == nil && !info.IsDir() {
					return p
				}
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if cfgDir, err := Dir(); err == nil {
		p := filepath.Join(cfgDir, GlobalFileName)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load reads and validates the config file at path.
func Load(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	layer, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return layer, nil
}

// Parse decodes and validates a JSON config document. Unknown keys are
// rejected.
func Parse(r io.Reader) (*Layer, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var layer Layer
	if err := dec.Decode(&layer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := layer.Validate(); err != nil {
		return nil, err
	}
	return &layer, nil
}

// Validate checks value ranges.
func (l *Layer) Validate() error {
	if l.MinAge != nil && *l.MinAge < 0 {
		return fmt.Errorf("%w: minAge must be a non-negative number", ErrInvalid)
	}
	if l.MinSize != nil && *l.MinSize < 0 {
		return fmt.Errorf("%w: minSize must be a non-negative number", ErrInvalid)
	}
	if l.Sort != nil {
		if _, err := analyzer.ParseSortKey(*l.Sort); err != nil || *l.Sort == "" {
			return fmt.Errorf("%w: sort must be one of: size, age, name, path", ErrInvalid)
		}
	}
	if l.Depth != nil && *l.Depth < 0 {
		return fmt.Errorf("%w: depth must be a non-negative number", ErrInvalid)
	}
	if l.Concurrency != nil && *l.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be a positive number", ErrInvalid)
	}
	if l.Scoring != nil {
		if err := l.Scoring.apply(analyzer.DefaultWeights()).Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	return nil
}
