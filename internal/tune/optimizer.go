// Package tune searches for the work-group size that minimises the parallel
// dispatch time of a benchmark session.
package tune

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// Optimizer minimises an objective over a box.
type Optimizer interface {
	// Run minimises eval over [lower, upper] in dim dimensions and returns
	// the best position and its cost.
	Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64, error)
}

const (
	DefaultIterations = 20
	// DefaultPopulation is the smallest population mayfly accepts.
	DefaultPopulation = 20
)

// Mayfly adapts the mayfly optimizer to the Optimizer interface.
type Mayfly struct {
	maxIters int
	popSize  int
	seed     int64
}

// NewMayfly returns a seeded mayfly optimizer. Runs with the same seed and a
// deterministic objective are reproducible.
func NewMayfly(maxIters, popSize int, seed int64) *Mayfly {
	if maxIters <= 0 {
		maxIters = DefaultIterations
	}
	if popSize < DefaultPopulation {
		popSize = DefaultPopulation
	}
	return &Mayfly{maxIters: maxIters, popSize: popSize, seed: seed}
}

func (m *Mayfly) Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64, error) {
	if dim <= 0 || len(lower) < dim || len(upper) < dim {
		return nil, 0, fmt.Errorf("mayfly: bounds do not cover %d dimensions", dim)
	}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = eval
	config.ProblemSize = dim
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize

	// Bounds are scalar; every dimension shares the first one.
	config.LowerBound = lower[0]
	config.UpperBound = upper[0]
	config.Rand = rand.New(rand.NewSource(m.seed))

	result, err := mayfly.Optimize(config)
	if err != nil {
		return nil, 0, fmt.Errorf("mayfly: %w", err)
	}
	return result.GlobalBest.Position, result.GlobalBest.Cost, nil
}
