package sweep

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/netsweep/netsweep_core/internal/pkg/config"
	"github.com/netsweep/netsweep_core/internal/pkg/design"
	"github.com/netsweep/netsweep_core/internal/pkg/network"
	"github.com/netsweep/netsweep_core/internal/pkg/scenario"
)

// ErrRunIndex marks a run token whose index falls outside the generated
// scenario set.
var ErrRunIndex = errors.New("run index out of range")

// Result records what a run applied, for logging and provenance.
type Result struct {
	Method    string
	Strategy  string
	Index     int
	Features  []string
	Scenarios [][]float64
	Applied   []float64
}

// Run generates the scenario set for a configuration, applies the scenario
// selected by the run token to the network in place, and attaches the whole
// set as export metadata.
func Run(cfg *config.Config, n *network.Network, token string) (*Result, error) {
	tk, err := scenario.ParseToken(token)
	if err != nil {
		return nil, err
	}
	if tk.Method != cfg.Method {
		return nil, fmt.Errorf("%w: run token %q does not belong to method %q",
			scenario.ErrValidation, token, cfg.Method)
	}

	switch cfg.Method {
	case scenario.MethodGlobalSensitivity:
		return runGlobalSensitivity(cfg, n, tk.Index)
	case scenario.MethodSingleBestInWorst:
		return runSingleBestInWorst(cfg, n, tk.Index)
	default:
		// Validate catches this before Run; kept so a hand-built Config
		// cannot fall through to a silent no-op.
		return nil, fmt.Errorf("%w: unknown method %q", config.ErrConfiguration, cfg.Method)
	}
}

func runGlobalSensitivity(cfg *config.Config, n *network.Network, index int) (*Result, error) {
	sampler, err := design.New(cfg.SamplingStrategy, design.Options{
		Criterion:    cfg.Sampling.Criterion,
		Iterations:   cfg.Sampling.Iterations,
		Rule:         cfg.Sampling.Rule,
		Centered:     cfg.Sampling.Centered,
		Strength:     cfg.Sampling.Strength,
		Optimization: cfg.Sampling.Optimization,
		Seed:         cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	lh, err := sampler.Sample(len(cfg.Features), cfg.Samples)
	if err != nil {
		return nil, err
	}
	log.Printf("[Sweep] Hypercube discrepancy is: %f", design.Discrepancy(lh))

	scaled, err := design.Scale(lh, cfg.LowerBounds(), cfg.UpperBounds())
	if err != nil {
		return nil, err
	}

	if index >= cfg.Samples {
		return nil, fmt.Errorf("%w: index %d, scenario set holds %d samples",
			ErrRunIndex, index, cfg.Samples)
	}

	applied := make([]float64, len(cfg.Features))
	paths := make([]string, len(cfg.Features))
	for j, f := range cfg.Features {
		factor := scaled.At(index, j)
		if err := n.ScaleAttribute(f.Path, factor); err != nil {
			return nil, err
		}
		applied[j] = factor
		paths[j] = f.Path
		log.Printf("[Sweep] Scaled %s by factor %f in the %d scenario", f.Path, factor, index)
	}

	scenarios := denseRows(scaled)
	attachMeta(n, scenarios)

	return &Result{
		Method:    cfg.Method,
		Strategy:  cfg.SamplingStrategy,
		Index:     index,
		Features:  paths,
		Scenarios: scenarios,
		Applied:   applied,
	}, nil
}

func runSingleBestInWorst(cfg *config.Config, n *network.Network, index int) (*Result, error) {
	// Exactly one stores.* feature; a hand-built Config may have skipped
	// Validate.
	if len(cfg.Features) != 1 {
		return nil, fmt.Errorf("%w: method %s takes exactly one stores.* feature, got %d",
			config.ErrConfiguration, cfg.Method, len(cfg.Features))
	}

	carriers := n.StoreCarriers()
	if len(carriers) == 0 {
		return nil, fmt.Errorf("%w: network has no stores to build scenarios from",
			config.ErrConfiguration)
	}

	feat := cfg.Features[0]
	attr := strings.TrimPrefix(feat.Path, "stores.")

	// One bound pair repeated per carrier: the upper bound is the worst
	// assumption, the lower the best.
	worst := repeat(feat.Bounds[1], len(carriers))
	best := repeat(feat.Bounds[0], len(carriers))
	scenarios, err := scenario.SingleBestInWorst(worst, best)
	if err != nil {
		return nil, err
	}

	if index >= len(scenarios) {
		return nil, fmt.Errorf("%w: index %d, scenario set holds %d carriers",
			ErrRunIndex, index, len(scenarios))
	}

	applied := make([]float64, len(carriers))
	for j, c := range carriers {
		factor := scenarios[index][j]
		if err := n.ScaleStoresWhere(c, attr, factor); err != nil {
			return nil, err
		}
		// The conversion chain scales with its storage carrier.
		if err := n.ScaleLinksWhere("H2", attr, factor); err != nil {
			return nil, err
		}
		applied[j] = factor
		log.Printf("[Sweep] Scaled %s for carrier=%s of store and links by factor %f in the %d scenario",
			attr, c, factor, index)
	}

	attachMeta(n, scenarios)

	return &Result{
		Method:    cfg.Method,
		Index:     index,
		Features:  carriers,
		Scenarios: scenarios,
		Applied:   applied,
	}, nil
}

// attachMeta merges the full scenario set into the network metadata, keyed
// "<feature column>_feature" -> {"<iteration>": value}, so every exported
// network carries the experimental design it came from.
func attachMeta(n *network.Network, scenarios [][]float64) {
	if n.Meta == nil {
		n.Meta = make(map[string]interface{})
	}
	if len(scenarios) == 0 {
		return
	}
	for j := 0; j < len(scenarios[0]); j++ {
		column := make(map[string]float64, len(scenarios))
		for i := range scenarios {
			column[strconv.Itoa(i)] = scenarios[i][j]
		}
		n.Meta[fmt.Sprintf("%d_feature", j)] = column
	}
}

func denseRows(m *mat.Dense) [][]float64 {
	rows, cols := m.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
