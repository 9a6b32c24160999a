// Package predict defines the classifier boundary: tensor in, a distribution
// over the ten digit classes out.
package predict

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"digit-canvas/internal/grid"

	"gonum.org/v1/gonum/floats"
)

// Classes is the number of digit classes.
const Classes = 10

// Probabilities is a categorical distribution indexed by digit.
type Probabilities [Classes]float64

// Classifier turns normalized grid input into class probabilities.
type Classifier interface {
	Classify(in grid.Tensor) (Probabilities, error)
	Close() error
}

// ErrNotDistribution is returned when raw scores cannot be normalized.
var ErrNotDistribution = errors.New("scores do not form a distribution")

// ModelLoadError reports a classifier that could not be initialized.
// Nothing works without it.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// Uniform returns the maximally uncertain distribution.
func Uniform() Probabilities {
	var p Probabilities
	for i := range p {
		p[i] = 1.0 / Classes
	}
	return p
}

// FromScores builds a distribution from raw model output. With softmax set the
// scores are treated as logits; otherwise they are taken as non-negative
// weights and rescaled to sum to one.
func FromScores(scores []float64, softmax bool) (Probabilities, error) {
	var p Probabilities
	if len(scores) != Classes {
		return p, fmt.Errorf("expected %d scores, got %d: %w", Classes, len(scores), ErrNotDistribution)
	}
	for i, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return p, fmt.Errorf("score %d is %v: %w", i, s, ErrNotDistribution)
		}
	}

	vals := make([]float64, Classes)
	copy(vals, scores)
	if softmax {
		floats.AddConst(-floats.Max(vals), vals)
		for i, v := range vals {
			vals[i] = math.Exp(v)
		}
	} else if floats.Min(vals) < 0 {
		return p, fmt.Errorf("negative score %v: %w", floats.Min(vals), ErrNotDistribution)
	}

	sum := floats.Sum(vals)
	if sum <= 0 {
		return p, fmt.Errorf("scores sum to %v: %w", sum, ErrNotDistribution)
	}
	floats.Scale(1/sum, vals)
	copy(p[:], vals)
	return p, nil
}

// Best returns the most likely digit and its probability. Ties go to the
// lower digit.
func (p Probabilities) Best() (int, float64) {
	i := floats.MaxIdx(p[:])
	return i, p[i]
}

// Ranked returns digits ordered by descending probability.
func (p Probabilities) Ranked() []int {
	order := make([]int, Classes)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return p[order[a]] > p[order[b]]
	})
	return order
}

// Sum returns the total probability mass.
func (p Probabilities) Sum() float64 {
	return floats.Sum(p[:])
}

// Shade maps a probability to a gray level: certain is black, impossible is
// white.
func (p Probabilities) Shade(digit int) uint8 {
	v := p[digit]
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8((1 - v) * 255)
}

// String formats the winning digit the way the panel shows it, e.g. "7 (93.12%)".
func (p Probabilities) String() string {
	d, v := p.Best()
	return fmt.Sprintf("%d (%.2f%%)", d, v*100)
}
