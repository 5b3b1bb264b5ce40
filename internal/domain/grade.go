package domain

import (
	"math"

	"github.com/yigit/ais/internal/pkg/apperrors"
)

const (
	MinGradeValue = 0.0
	MaxGradeValue = 100.0
)

// ValidateGradeValue rejects values outside [0,100]
func ValidateGradeValue(value float64) error {
	if math.IsNaN(value) || value < MinGradeValue || value > MaxGradeValue {
		return apperrors.NewValidationError("grade value must be between 0 and 100")
	}
	return nil
}

// Round2 rounds to two decimal places, half away from zero
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// GradeSummary is the reduction of a set of grade values
type GradeSummary struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Rounded returns the summary with every figure rounded for display
func (s GradeSummary) Rounded() GradeSummary {
	return GradeSummary{
		Count:   s.Count,
		Average: Round2(s.Average),
		Min:     Round2(s.Min),
		Max:     Round2(s.Max),
	}
}

// Summarize reduces values to count/average/min/max. An empty set is all zeros.
func Summarize(values []float64) GradeSummary {
	if len(values) == 0 {
		return GradeSummary{}
	}
	sum := 0.0
	lo, hi := values[0], values[0]
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return GradeSummary{
		Count:   int64(len(values)),
		Average: sum / float64(len(values)),
		Min:     lo,
		Max:     hi,
	}.Rounded()
}

// IsFailing reports whether value is below the passing threshold
func IsFailing(value, passingThreshold float64) bool {
	return value < passingThreshold
}
