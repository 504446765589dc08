package design

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// IndependentUniform composes the joint design from `features` independent
// uniform [0,1] marginals and draws `samples` points under a sampling rule.
type IndependentUniform struct {
	// Rule is one of "latin_hypercube" (default), "random" or "halton".
	Rule string
	Seed uint64
}

func (s IndependentUniform) Sample(features, samples int) (*mat.Dense, error) {
	if err := checkDims(features, samples); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(s.Seed))
	switch s.Rule {
	case "", "latin_hypercube":
		return stratified(rng, samples, features, false), nil
	case "random":
		m := mat.NewDense(samples, features, nil)
		u := distuv.Uniform{Min: 0, Max: 1, Src: rng}
		for i := 0; i < samples; i++ {
			for j := 0; j < features; j++ {
				m.Set(i, j, u.Rand())
			}
		}
		return m, nil
	case "halton":
		return halton(samples, features), nil
	default:
		return nil, fmt.Errorf("%w: unknown sampling rule %q", ErrValidation, s.Rule)
	}
}

// halton is the unscrambled Halton low-discrepancy sequence, one prime base
// per feature. Deterministic regardless of seed.
func halton(samples, features int) *mat.Dense {
	m := mat.NewDense(samples, features, nil)
	for j := 0; j < features; j++ {
		base := nthPrime(j)
		for i := 0; i < samples; i++ {
			m.Set(i, j, radicalInverse(i+1, base))
		}
	}
	return m
}

// radicalInverse reflects the base-b digits of k about the radix point.
func radicalInverse(k, b int) float64 {
	v := 0.0
	f := 1.0 / float64(b)
	for k > 0 {
		v += f * float64(k%b)
		k /= b
		f /= float64(b)
	}
	return v
}

func nthPrime(n int) int {
	count := 0
	for p := 2; ; p++ {
		if isPrime(p) {
			if count == n {
				return p
			}
			count++
		}
	}
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}
