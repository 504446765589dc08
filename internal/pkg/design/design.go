package design

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrValidation marks sampler or scaling inputs that cannot produce a design.
var ErrValidation = errors.New("invalid design input")

// DefaultSeed keeps repeated invocations of the pipeline reproducible unless
// the run configuration says otherwise.
const DefaultSeed uint64 = 42

// Strategy names accepted by New. The names track the packages the original
// experimental designs were benchmarked against.
const (
	StrategyPyDOE2  = "pydoe2"
	StrategySciPy   = "scipy"
	StrategyChaospy = "chaospy"
)

// Sampler produces a space-filling design matrix of shape
// (samples x features) with every entry in the closed interval [0, 1].
type Sampler interface {
	Sample(features, samples int) (*mat.Dense, error)
}

// Options collects the per-strategy knobs from the run configuration. Each
// sampler reads only the fields it understands.
type Options struct {
	Criterion    string
	Iterations   int
	Correlation  *mat.SymDense
	Rule         string
	Centered     bool
	Strength     int
	Optimization string
	Seed         uint64
}

// New returns the sampler for a strategy name.
func New(strategy string, opts Options) (Sampler, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = DefaultSeed
	}

	switch strategy {
	case StrategyPyDOE2:
		return ClassicLHS{
			Criterion:   opts.Criterion,
			Iterations:  opts.Iterations,
			Correlation: opts.Correlation,
			Seed:        seed,
		}, nil
	case StrategySciPy:
		return OrthogonalLHS{
			Centered:     opts.Centered,
			Strength:     opts.Strength,
			Optimization: opts.Optimization,
			Seed:         seed,
		}, nil
	case StrategyChaospy:
		return IndependentUniform{Rule: opts.Rule, Seed: seed}, nil
	default:
		return nil, fmt.Errorf("%w: unknown sampling strategy %q", ErrValidation, strategy)
	}
}

func checkDims(features, samples int) error {
	if features < 1 {
		return fmt.Errorf("%w: features must be >= 1, got %d", ErrValidation, features)
	}
	if samples < 1 {
		return fmt.Errorf("%w: samples must be >= 1, got %d", ErrValidation, samples)
	}
	return nil
}

// Scale maps each column j of a unit-interval design onto
// [lower[j], upper[j]]. The input matrix is not modified.
func Scale(m *mat.Dense, lower, upper []float64) (*mat.Dense, error) {
	rows, cols := m.Dims()
	if len(lower) != cols || len(upper) != cols {
		return nil, fmt.Errorf("%w: bounds length %d/%d does not match %d features",
			ErrValidation, len(lower), len(upper), cols)
	}

	scaled := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		span := upper[j] - lower[j]
		for i := 0; i < rows; i++ {
			scaled.Set(i, j, lower[j]+m.At(i, j)*span)
		}
	}
	return scaled, nil
}

// Discrepancy computes the centered L2 discrepancy of a unit-interval
// design. Lower values indicate more uniform coverage. Purely diagnostic;
// nothing downstream consumes it.
func Discrepancy(m *mat.Dense) float64 {
	rows, cols := m.Dims()
	n := float64(rows)

	sum1 := 0.0
	for i := 0; i < rows; i++ {
		prod := 1.0
		for j := 0; j < cols; j++ {
			z := math.Abs(m.At(i, j) - 0.5)
			prod *= 1 + 0.5*z - 0.5*z*z
		}
		sum1 += prod
	}

	sum2 := 0.0
	for i := 0; i < rows; i++ {
		for k := 0; k < rows; k++ {
			prod := 1.0
			for j := 0; j < cols; j++ {
				zi := math.Abs(m.At(i, j) - 0.5)
				zk := math.Abs(m.At(k, j) - 0.5)
				prod *= 1 + 0.5*zi + 0.5*zk - 0.5*math.Abs(m.At(i, j)-m.At(k, j))
			}
			sum2 += prod
		}
	}

	return math.Pow(13.0/12.0, float64(cols)) - 2.0/n*sum1 + 1.0/(n*n)*sum2
}
