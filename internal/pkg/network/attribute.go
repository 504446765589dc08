package network

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAttribute marks an attribute path or component attribute the sweep does
// not know how to scale.
var ErrAttribute = errors.New("unknown network attribute")

// The uncertain attributes a sweep may scale are a closed set. The original
// pipeline evaluated config keys as code against the network object; here
// every path is bound to an explicit mutator so a typo fails at config load
// instead of executing.
var attributePaths = map[string]func(*Network, float64){
	"loads_t.p_set": func(n *Network, f float64) {
		scaleSeries(n.LoadsT.PSet, f)
	},
	"generators_t.p_max_pu": func(n *Network, f float64) {
		scaleSeries(n.GeneratorsT.PMaxPu, f)
	},
	"generators.p_nom_max": func(n *Network, f float64) {
		for i := range n.Generators {
			n.Generators[i].PNomMax *= f
		}
	},
	"generators.marginal_cost": func(n *Network, f float64) {
		for i := range n.Generators {
			n.Generators[i].MarginalCost *= f
		}
	},
	"stores.capital_cost": func(n *Network, f float64) {
		for i := range n.Stores {
			n.Stores[i].CapitalCost *= f
		}
	},
	"stores.marginal_cost": func(n *Network, f float64) {
		for i := range n.Stores {
			n.Stores[i].MarginalCost *= f
		}
	},
	"stores.e_nom_max": func(n *Network, f float64) {
		for i := range n.Stores {
			n.Stores[i].ENomMax *= f
		}
	},
	"storage_units.p_nom_max": func(n *Network, f float64) {
		for i := range n.StorageUnits {
			n.StorageUnits[i].PNomMax *= f
		}
	},
	"links.capital_cost": func(n *Network, f float64) {
		for i := range n.Links {
			n.Links[i].CapitalCost *= f
		}
	},
	"links.p_nom_max": func(n *Network, f float64) {
		for i := range n.Links {
			n.Links[i].PNomMax *= f
		}
	},
	"lines.s_nom": func(n *Network, f float64) {
		for i := range n.Lines {
			n.Lines[i].SNom *= f
		}
	},
}

func scaleSeries(series map[string][]float64, f float64) {
	for _, values := range series {
		for i := range values {
			values[i] *= f
		}
	}
}

// KnownAttribute reports whether path can be scaled.
func KnownAttribute(path string) bool {
	_, ok := attributePaths[path]
	return ok
}

// ScaleAttribute multiplies the network values at path by factor.
func (n *Network) ScaleAttribute(path string, factor float64) error {
	mutate, ok := attributePaths[path]
	if !ok {
		return fmt.Errorf("%w: %q", ErrAttribute, path)
	}
	mutate(n, factor)
	return nil
}

// Carrier-scoped attributes used by the single-best-in-worst method.
const (
	AttrCapitalCost  = "capital_cost"
	AttrMarginalCost = "marginal_cost"
	AttrENomMax      = "e_nom_max"
	AttrPNomMax      = "p_nom_max"
)

// KnownCarrierAttribute reports whether attr can be scaled per carrier.
func KnownCarrierAttribute(attr string) bool {
	switch attr {
	case AttrCapitalCost, AttrMarginalCost, AttrENomMax, AttrPNomMax:
		return true
	}
	return false
}

// ScaleStoresWhere multiplies attr by factor across all stores with the
// given carrier.
func (n *Network) ScaleStoresWhere(carrier, attr string, factor float64) error {
	switch attr {
	case AttrCapitalCost, AttrMarginalCost, AttrENomMax:
	default:
		return fmt.Errorf("%w: stores.%s", ErrAttribute, attr)
	}

	for i := range n.Stores {
		if n.Stores[i].Carrier != carrier {
			continue
		}
		switch attr {
		case AttrCapitalCost:
			n.Stores[i].CapitalCost *= factor
		case AttrMarginalCost:
			n.Stores[i].MarginalCost *= factor
		case AttrENomMax:
			n.Stores[i].ENomMax *= factor
		}
	}
	return nil
}

// ScaleLinksWhere multiplies attr by factor across all links whose carrier
// contains substr. Used to keep conversion chains (electrolysis, fuel cells)
// in step with their storage carrier.
func (n *Network) ScaleLinksWhere(substr, attr string, factor float64) error {
	switch attr {
	case AttrCapitalCost, AttrMarginalCost, AttrPNomMax:
	default:
		return fmt.Errorf("%w: links.%s", ErrAttribute, attr)
	}

	for i := range n.Links {
		if !strings.Contains(n.Links[i].Carrier, substr) {
			continue
		}
		switch attr {
		case AttrCapitalCost:
			n.Links[i].CapitalCost *= factor
		case AttrMarginalCost:
			n.Links[i].MarginalCost *= factor
		case AttrPNomMax:
			n.Links[i].PNomMax *= factor
		}
	}
	return nil
}
