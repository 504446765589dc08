package design

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gotest.tools/assert"
)

func samplers(t *testing.T) map[string]Sampler {
	t.Helper()
	return map[string]Sampler{
		"classic":    ClassicLHS{Seed: 42},
		"centered":   ClassicLHS{Criterion: "center", Seed: 42},
		"maximin":    ClassicLHS{Criterion: "maximin", Iterations: 5, Seed: 42},
		"corr":       ClassicLHS{Criterion: "correlation", Iterations: 5, Seed: 42},
		"uniform":    IndependentUniform{Rule: "random", Seed: 42},
		"uniformLHS": IndependentUniform{Seed: 42},
		"halton":     IndependentUniform{Rule: "halton", Seed: 42},
		"orthog1":    OrthogonalLHS{Strength: 1, Seed: 42},
		"orthog2":    OrthogonalLHS{Strength: 2, Seed: 42},
		"orthogOpt":  OrthogonalLHS{Strength: 2, Optimization: "random-cd", Seed: 42},
	}
}

func assertUnitHypercube(t *testing.T, name string, m *mat.Dense, samples, features int) {
	t.Helper()
	rows, cols := m.Dims()
	if rows != samples || cols != features {
		t.Errorf("%s shape: FAILED. got (%d,%d) want (%d,%d)", name, rows, cols, samples, features)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if v < 0 || v > 1 {
				t.Errorf("%s range: FAILED. entry (%d,%d)=%f outside [0,1]", name, i, j, v)
			}
		}
	}
}

func TestSamplersShapeAndRange(t *testing.T) {
	// 9 = 3^2 keeps the strength-2 samplers valid for the shared grid.
	const features, samples = 3, 9
	for name, s := range samplers(t) {
		m, err := s.Sample(features, samples)
		assert.NilError(t, err)
		assertUnitHypercube(t, name, m, samples, features)
	}
}

func TestSamplersDeterministic(t *testing.T) {
	const features, samples = 3, 9
	for name, s := range samplers(t) {
		m1, err := s.Sample(features, samples)
		assert.NilError(t, err)
		m2, err := s.Sample(features, samples)
		assert.NilError(t, err)
		if !mat.Equal(m1, m2) {
			t.Errorf("%s determinism: FAILED. repeated draw diverged", name)
		} else {
			t.Logf("%s determinism: PASSED.", name)
		}
	}
}

func TestSamplersDimensionValidation(t *testing.T) {
	for name, s := range samplers(t) {
		if _, err := s.Sample(0, 4); !errors.Is(err, ErrValidation) {
			t.Errorf("%s features=0: FAILED. want validation error, got %v", name, err)
		}
		if _, err := s.Sample(2, 0); !errors.Is(err, ErrValidation) {
			t.Errorf("%s samples=0: FAILED. want validation error, got %v", name, err)
		}
	}
}

func TestClassicLHSStratification(t *testing.T) {
	const features, samples = 2, 8
	m, err := ClassicLHS{Seed: 42}.Sample(features, samples)
	assert.NilError(t, err)

	// Exactly one point per stratum per feature.
	for j := 0; j < features; j++ {
		seen := make([]bool, samples)
		for i := 0; i < samples; i++ {
			stratum := int(m.At(i, j) * samples)
			if stratum == samples {
				stratum--
			}
			if seen[stratum] {
				t.Errorf("stratification: FAILED. stratum %d of feature %d hit twice", stratum, j)
			}
			seen[stratum] = true
		}
	}
}

func TestCenteredCriterionMidpoints(t *testing.T) {
	const samples = 4
	m, err := ClassicLHS{Criterion: "center", Seed: 42}.Sample(1, samples)
	assert.NilError(t, err)

	for i := 0; i < samples; i++ {
		v := m.At(i, 0)
		frac := v*samples - float64(int(v*samples))
		if frac != 0.5 {
			t.Errorf("center: FAILED. %f is not a stratum midpoint", v)
		}
	}
}

func TestUnknownCriterionRejected(t *testing.T) {
	_, err := ClassicLHS{Criterion: "bogus", Seed: 42}.Sample(2, 4)
	assert.Assert(t, errors.Is(err, ErrValidation))

	_, err = IndependentUniform{Rule: "bogus", Seed: 42}.Sample(2, 4)
	assert.Assert(t, errors.Is(err, ErrValidation))
}

func TestStrengthTwoRequiresPrimeSquare(t *testing.T) {
	if _, err := (OrthogonalLHS{Strength: 2, Seed: 42}).Sample(2, 10); !errors.Is(err, ErrValidation) {
		t.Errorf("samples=10 strength=2: FAILED. want validation error, got %v", err)
	} else {
		t.Logf("samples=10 strength=2: PASSED. rejected")
	}

	// 16 = 4^2 but 4 is not prime.
	if _, err := (OrthogonalLHS{Strength: 2, Seed: 42}).Sample(2, 16); !errors.Is(err, ErrValidation) {
		t.Errorf("samples=16 strength=2: FAILED. want validation error, got %v", err)
	}

	// Too many features for the orthogonal array.
	if _, err := (OrthogonalLHS{Strength: 2, Seed: 42}).Sample(5, 9); !errors.Is(err, ErrValidation) {
		t.Errorf("features=5 samples=9: FAILED. want validation error, got %v", err)
	}
}

func TestStrengthTwoIsLatin(t *testing.T) {
	// The OA-based design must still be a Latin hypercube: one point per
	// 1/samples stratum in every column.
	const features, samples = 4, 9
	m, err := OrthogonalLHS{Strength: 2, Seed: 42}.Sample(features, samples)
	assert.NilError(t, err)

	for j := 0; j < features; j++ {
		seen := make([]bool, samples)
		for i := 0; i < samples; i++ {
			stratum := int(m.At(i, j) * samples)
			if stratum == samples {
				stratum--
			}
			if seen[stratum] {
				t.Errorf("OA latinness: FAILED. stratum %d of feature %d hit twice", stratum, j)
			}
			seen[stratum] = true
		}
	}
}

func TestScaleEndpoints(t *testing.T) {
	zeros := mat.NewDense(3, 1, nil)
	ones := mat.NewDense(3, 1, []float64{1, 1, 1})
	lo, hi := []float64{0.8}, []float64{1.2}

	scaled, err := Scale(zeros, lo, hi)
	assert.NilError(t, err)
	for i := 0; i < 3; i++ {
		assert.Equal(t, scaled.At(i, 0), 0.8)
	}

	scaled, err = Scale(ones, lo, hi)
	assert.NilError(t, err)
	for i := 0; i < 3; i++ {
		assert.Equal(t, scaled.At(i, 0), 1.2)
	}
}

func TestScaleBoundsMismatch(t *testing.T) {
	m := mat.NewDense(2, 2, nil)
	_, err := Scale(m, []float64{0}, []float64{1, 2})
	assert.Assert(t, errors.Is(err, ErrValidation))
}

func TestDiscrepancyPrefersSpread(t *testing.T) {
	clustered := mat.NewDense(4, 2, []float64{
		0.01, 0.01,
		0.02, 0.02,
		0.01, 0.02,
		0.02, 0.01,
	})
	spread := mat.NewDense(4, 2, []float64{
		0.125, 0.625,
		0.375, 0.125,
		0.625, 0.875,
		0.875, 0.375,
	})

	dc := Discrepancy(clustered)
	ds := Discrepancy(spread)
	if ds >= dc {
		t.Errorf("discrepancy: FAILED. spread design %f not below clustered %f", ds, dc)
	} else {
		t.Logf("discrepancy: PASSED. %f < %f", ds, dc)
	}
}

func TestNewByStrategyName(t *testing.T) {
	for _, strategy := range []string{StrategyPyDOE2, StrategySciPy, StrategyChaospy} {
		s, err := New(strategy, Options{})
		assert.NilError(t, err)
		m, err := s.Sample(2, 4)
		assert.NilError(t, err)
		assertUnitHypercube(t, strategy, m, 4, 2)
	}

	_, err := New("numpy", Options{})
	assert.Assert(t, errors.Is(err, ErrValidation))
}
