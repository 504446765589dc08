package design

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ClassicLHS partitions each feature's [0,1] range into `samples` equal
// strata and places exactly one point per stratum per feature.
type ClassicLHS struct {
	// Criterion selects a refinement over the plain stratified draw:
	// "" or "random" keeps the first draw, "center" pins every point to
	// its stratum midpoint, "maximin" keeps the candidate with the largest
	// minimal pairwise distance, "correlation" keeps the candidate whose
	// sample correlation is closest to Correlation (identity when nil).
	Criterion   string
	Iterations  int
	Correlation *mat.SymDense
	Seed        uint64
}

const defaultIterations = 5

func (s ClassicLHS) Sample(features, samples int) (*mat.Dense, error) {
	if err := checkDims(features, samples); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(s.Seed))
	iters := s.Iterations
	if iters < 1 {
		iters = defaultIterations
	}

	switch s.Criterion {
	case "", "random":
		return stratified(rng, samples, features, false), nil
	case "center":
		return stratified(rng, samples, features, true), nil
	case "maximin":
		return bestOf(rng, samples, features, iters, maximinScore), nil
	case "correlation":
		target := s.Correlation
		if target == nil {
			target = identity(features)
		}
		score := func(m *mat.Dense) float64 { return -correlationError(m, target) }
		return bestOf(rng, samples, features, iters, score), nil
	default:
		return nil, fmt.Errorf("%w: unknown criterion %q", ErrValidation, s.Criterion)
	}
}

// stratified draws one point per stratum per feature, with an independent
// stratum permutation per column.
func stratified(rng *rand.Rand, samples, features int, centered bool) *mat.Dense {
	m := mat.NewDense(samples, features, nil)
	u := distuv.Uniform{Min: 0, Max: 1, Src: rng}
	for j := 0; j < features; j++ {
		perm := rng.Perm(samples)
		for i := 0; i < samples; i++ {
			off := 0.5
			if !centered {
				off = u.Rand()
			}
			m.Set(i, j, (float64(perm[i])+off)/float64(samples))
		}
	}
	return m
}

// bestOf draws `iters` candidate designs and keeps the highest-scoring one.
func bestOf(rng *rand.Rand, samples, features, iters int, score func(*mat.Dense) float64) *mat.Dense {
	var best *mat.Dense
	bestScore := math.Inf(-1)
	for it := 0; it < iters; it++ {
		cand := stratified(rng, samples, features, false)
		if sc := score(cand); sc > bestScore {
			best, bestScore = cand, sc
		}
	}
	return best
}

// maximinScore is the minimal pairwise Euclidean distance of the design.
func maximinScore(m *mat.Dense) float64 {
	rows, cols := m.Dims()
	min := math.Inf(1)
	for i := 0; i < rows; i++ {
		for k := i + 1; k < rows; k++ {
			d := 0.0
			for j := 0; j < cols; j++ {
				diff := m.At(i, j) - m.At(k, j)
				d += diff * diff
			}
			if d < min {
				min = d
			}
		}
	}
	return min
}

// correlationError is the largest absolute off-diagonal deviation between
// the design's sample correlation and the target matrix.
func correlationError(m *mat.Dense, target *mat.SymDense) float64 {
	_, cols := m.Dims()
	corr := mat.NewSymDense(cols, nil)
	stat.CorrelationMatrix(corr, m, nil)

	worst := 0.0
	for i := 0; i < cols; i++ {
		for j := i + 1; j < cols; j++ {
			dev := math.Abs(corr.At(i, j) - target.At(i, j))
			if dev > worst {
				worst = dev
			}
		}
	}
	return worst
}

func identity(n int) *mat.SymDense {
	id := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		id.SetSym(i, i, 1)
	}
	return id
}
