package network

import (
	"errors"
	"path/filepath"
	"testing"

	"gotest.tools/assert"
)

func testNetwork() *Network {
	return &Network{
		Name:      "elec_s_10",
		Snapshots: []string{"2013-01-01 00:00", "2013-01-01 01:00"},
		Carriers: []Carrier{
			{Name: "battery"},
			{Name: "H2"},
			{Name: "wind"},
		},
		Buses: []Bus{
			{Name: "bus0", Carrier: "AC", VNom: 380},
			{Name: "bus1", Carrier: "AC", VNom: 380},
		},
		Generators: []Generator{
			{Name: "gen wind", Bus: "bus0", Carrier: "wind", PNom: 100, PNomMax: 200, MarginalCost: 1.5},
		},
		Loads: []Load{
			{Name: "load0", Bus: "bus0"},
			{Name: "load1", Bus: "bus1"},
		},
		Stores: []Store{
			{Name: "store battery", Bus: "bus0", Carrier: "battery", ENomMax: 500, CapitalCost: 300},
			{Name: "store H2", Bus: "bus1", Carrier: "H2", ENomMax: 1000, CapitalCost: 120},
		},
		Links: []Link{
			{Name: "electrolysis", Bus0: "bus0", Bus1: "bus1", Carrier: "H2 electrolysis", PNomMax: 50, CapitalCost: 80},
			{Name: "battery charger", Bus0: "bus0", Bus1: "bus0", Carrier: "battery charger", PNomMax: 40, CapitalCost: 60},
		},
		Lines: []Line{
			{Name: "line0", Bus0: "bus0", Bus1: "bus1", SNom: 1500, Length: 120},
		},
		LoadsT: LoadSeries{PSet: map[string][]float64{
			"load0": {10, 12},
			"load1": {20, 18},
		}},
		GeneratorsT: GeneratorSeries{PMaxPu: map[string][]float64{
			"gen wind": {0.4, 0.9},
		}},
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.json")

	n := testNetwork()
	n.Meta = map[string]interface{}{"version": "0.1.0"}
	assert.NilError(t, n.Export(path))

	loaded, err := Read(path)
	assert.NilError(t, err)

	assert.Equal(t, loaded.Name, n.Name)
	assert.Equal(t, len(loaded.Stores), 2)
	assert.DeepEqual(t, loaded.LoadsT.PSet["load0"], []float64{10, 12})
	assert.Equal(t, loaded.Meta["version"], "0.1.0")
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.json"))
	assert.Assert(t, err != nil)
}

func TestScaleAttributeSeries(t *testing.T) {
	n := testNetwork()
	assert.NilError(t, n.ScaleAttribute("loads_t.p_set", 1.1))

	if got := n.LoadsT.PSet["load0"][0]; got != 11 {
		t.Errorf("ScaleAttribute(loads_t.p_set): FAILED. got %f, want 11", got)
	} else {
		t.Logf("ScaleAttribute(loads_t.p_set): PASSED.")
	}
	assert.Equal(t, n.LoadsT.PSet["load1"][1], 18*1.1)
}

func TestScaleAttributeScalar(t *testing.T) {
	n := testNetwork()
	assert.NilError(t, n.ScaleAttribute("generators.p_nom_max", 0.5))
	assert.Equal(t, n.Generators[0].PNomMax, 100.0)

	assert.NilError(t, n.ScaleAttribute("lines.s_nom", 2))
	assert.Equal(t, n.Lines[0].SNom, 3000.0)
}

func TestScaleAttributeStoreCosts(t *testing.T) {
	n := testNetwork()
	n.Stores[0].MarginalCost = 4

	assert.NilError(t, n.ScaleAttribute("stores.marginal_cost", 0.25))
	assert.Equal(t, n.Stores[0].MarginalCost, 1.0)

	assert.NilError(t, n.ScaleAttribute("stores.capital_cost", 0.5))
	assert.Equal(t, n.Stores[0].CapitalCost, 150.0)
	assert.Equal(t, n.Stores[1].CapitalCost, 60.0)
}

func TestScaleAttributeUnknownPath(t *testing.T) {
	n := testNetwork()
	err := n.ScaleAttribute("buses.v_nom", 1.1)
	assert.Assert(t, errors.Is(err, ErrAttribute))
}

func TestStoreCarriersSortedUnique(t *testing.T) {
	n := testNetwork()
	n.Stores = append(n.Stores, Store{Name: "store battery 2", Carrier: "battery"})

	assert.DeepEqual(t, n.StoreCarriers(), []string{"H2", "battery"})
}

func TestScaleStoresWhere(t *testing.T) {
	n := testNetwork()
	assert.NilError(t, n.ScaleStoresWhere("battery", AttrCapitalCost, 0.5))

	assert.Equal(t, n.Stores[0].CapitalCost, 150.0)
	// Other carriers untouched.
	assert.Equal(t, n.Stores[1].CapitalCost, 120.0)

	err := n.ScaleStoresWhere("battery", "p_nom", 0.5)
	assert.Assert(t, errors.Is(err, ErrAttribute))
}

func TestScaleLinksWhere(t *testing.T) {
	n := testNetwork()
	assert.NilError(t, n.ScaleLinksWhere("H2", AttrCapitalCost, 2))

	assert.Equal(t, n.Links[0].CapitalCost, 160.0)
	// Non-matching carrier untouched.
	assert.Equal(t, n.Links[1].CapitalCost, 60.0)
}

func TestKnownAttribute(t *testing.T) {
	assert.Assert(t, KnownAttribute("loads_t.p_set"))
	assert.Assert(t, KnownAttribute("stores.capital_cost"))
	assert.Assert(t, !KnownAttribute("loads_t.q_set"))

	assert.Assert(t, KnownCarrierAttribute(AttrMarginalCost))
	assert.Assert(t, !KnownCarrierAttribute("soc"))
}
