package analyzer

import (
	"errors"
	"fmt"
	"math"
)

const (
	bytesPerMB = 1024 * 1024
	msPerDay   = 24 * 60 * 60 * 1000
)

// Weights holds the scoring constants.
//
// Score components:
//   - Age: age in days, capped at AgeCap (default 100), times Age (0.5)
//   - Size: size in MiB / SizeDivisorMB (10), capped at SizeCap (100), times Size (0.4)
//   - Orphan: OrphanBonus (10) when package.json is missing, times Orphan (0.1)
type Weights struct {
	Age    float64 `json:"ageWeight"`
	Size   float64 `json:"sizeWeight"`
	Orphan float64 `json:"orphanWeight"`

	AgeCap        float64 `json:"ageCap"`
	SizeCap       float64 `json:"sizeCap"`
	SizeDivisorMB float64 `json:"sizeDivisorMB"`
	OrphanBonus   float64 `json:"orphanBonus"`
}

// DefaultWeights returns the stock scoring constants.
func DefaultWeights() Weights {
	return Weights{
		Age:           0.5,
		Size:          0.4,
		Orphan:        0.1,
		AgeCap:        100,
		SizeCap:       100,
		SizeDivisorMB: 10,
		OrphanBonus:   10,
	}
}

// ErrInvalidWeights is wrapped by Validate failures.
var ErrInvalidWeights = errors.New("invalid scoring weights")

// Validate checks that weights are non-negative, sum to 1, and that caps and
// divisor are positive.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"ageWeight": w.Age, "sizeWeight": w.Size, "orphanWeight": w.Orphan,
		"ageCap": w.AgeCap, "sizeCap": w.SizeCap, "orphanBonus": w.OrphanBonus,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s must be non-negative", ErrInvalidWeights, name)
		}
	}
	if w.SizeDivisorMB <= 0 {
		return fmt.Errorf("%w: sizeDivisorMB must be positive", ErrInvalidWeights)
	}
	if sum := w.Age + w.Size + w.Orphan; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: weights must sum to 1 (got %g)", ErrInvalidWeights, sum)
	}
	return nil
}

// score fills the score fields of m.
func (w Weights) score(m *AnalyzedModule) {
	sizeMB := float64(m.SizeBytes) / bytesPerMB

	m.AgeScore = math.Min(w.AgeCap, m.AgeDays) * w.Age
	m.SizeScore = math.Min(w.SizeCap, sizeMB/w.SizeDivisorMB) * w.Size
	m.OrphanScore = 0
	if !m.HasPackageJson {
		m.OrphanScore = w.OrphanBonus * w.Orphan
	}

	m.Score = m.AgeScore + m.SizeScore + m.OrphanScore
}
