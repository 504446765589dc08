package design

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// OrthogonalLHS is a Latin hypercube with an optional strength-2
// orthogonal-array backbone and an optional discrepancy-minimizing
// post-optimization pass.
type OrthogonalLHS struct {
	Centered bool
	// Strength 1 is the classic design; strength 2 builds on an orthogonal
	// array and requires `samples` to be the square of a prime number with
	// features <= prime+1.
	Strength int
	// Optimization "random-cd" runs random within-column element swaps and
	// keeps those that lower the centered discrepancy. The strength
	// property is not guaranteed to survive optimization.
	Optimization string
	Seed         uint64
}

const optimizationSwaps = 100

func (s OrthogonalLHS) Sample(features, samples int) (*mat.Dense, error) {
	if err := checkDims(features, samples); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(s.Seed))

	var m *mat.Dense
	switch s.Strength {
	case 0, 1:
		m = stratified(rng, samples, features, s.Centered)
	case 2:
		var err error
		m, err = orthogonalArrayLHS(rng, samples, features, s.Centered)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: strength must be 1 or 2, got %d", ErrValidation, s.Strength)
	}

	switch s.Optimization {
	case "":
	case "random-cd":
		randomCD(rng, m, optimizationSwaps)
	default:
		return nil, fmt.Errorf("%w: unknown optimization %q", ErrValidation, s.Optimization)
	}

	return m, nil
}

// orthogonalArrayLHS builds an OA(p^2, p+1, p, 2) over GF(p) and spreads
// each level's p points across its stratum.
func orthogonalArrayLHS(rng *rand.Rand, samples, features int, centered bool) (*mat.Dense, error) {
	p := int(math.Round(math.Sqrt(float64(samples))))
	if p*p != samples || !isPrime(p) {
		return nil, fmt.Errorf("%w: strength 2 requires samples to be the square of a prime, got %d",
			ErrValidation, samples)
	}
	if features > p+1 {
		return nil, fmt.Errorf("%w: strength 2 with %d samples supports at most %d features, got %d",
			ErrValidation, samples, p+1, features)
	}

	// Row r = (a, b) in GF(p)^2. Column j < p reads a*j+b mod p, the extra
	// column reads a. Any two columns hit every level pair exactly once.
	levels := make([][]int, features)
	for j := range levels {
		levels[j] = make([]int, samples)
	}
	for r := 0; r < samples; r++ {
		a, b := r/p, r%p
		for j := 0; j < features; j++ {
			if j < p {
				levels[j][r] = (a*j + b) % p
			} else {
				levels[j][r] = a
			}
		}
	}

	m := mat.NewDense(samples, features, nil)
	u := distuv.Uniform{Min: 0, Max: 1, Src: rng}
	for j := 0; j < features; j++ {
		// Spread the p rows sharing a level over the p sub-strata of that
		// level, one row per sub-stratum.
		byLevel := make([][]int, p)
		for r := 0; r < samples; r++ {
			l := levels[j][r]
			byLevel[l] = append(byLevel[l], r)
		}
		for l, rows := range byLevel {
			perm := rng.Perm(len(rows))
			for k, r := range rows {
				off := 0.5
				if !centered {
					off = u.Rand()
				}
				cell := float64(l*p + perm[k])
				m.Set(r, j, (cell+off)/float64(samples))
			}
		}
	}
	return m, nil
}

// randomCD proposes random within-column swaps of two rows and accepts a
// swap when it lowers the centered discrepancy.
func randomCD(rng *rand.Rand, m *mat.Dense, swaps int) {
	rows, cols := m.Dims()
	if rows < 2 {
		return
	}

	best := Discrepancy(m)
	for s := 0; s < swaps; s++ {
		j := rng.Intn(cols)
		i1 := rng.Intn(rows)
		i2 := rng.Intn(rows)
		if i1 == i2 {
			continue
		}

		v1, v2 := m.At(i1, j), m.At(i2, j)
		m.Set(i1, j, v2)
		m.Set(i2, j, v1)

		if d := Discrepancy(m); d < best {
			best = d
			continue
		}
		m.Set(i1, j, v1)
		m.Set(i2, j, v2)
	}
}
