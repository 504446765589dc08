package network

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Network is the serialized electrical-network artifact the pipeline reads,
// perturbs and re-exports. Component fields carry the economic and capacity
// parameters the sweep is allowed to scale; everything the solver needs
// beyond that travels through untouched.
type Network struct {
	Name         string                 `json:"Name"`
	Snapshots    []string               `json:"Snapshots"`
	Carriers     []Carrier              `json:"Carriers"`
	Buses        []Bus                  `json:"Buses"`
	Generators   []Generator            `json:"Generators"`
	Loads        []Load                 `json:"Loads"`
	Stores       []Store                `json:"Stores"`
	StorageUnits []StorageUnit          `json:"StorageUnits"`
	Links        []Link                 `json:"Links"`
	Lines        []Line                 `json:"Lines"`
	LoadsT       LoadSeries             `json:"LoadsT"`
	GeneratorsT  GeneratorSeries        `json:"GeneratorsT"`
	Meta         map[string]interface{} `json:"Meta"`
}

// Carrier tags a technology category, e.g. "battery" or "H2".
type Carrier struct {
	Name         string  `json:"Name"`
	CO2Emissions float64 `json:"CO2Emissions"`
}

type Bus struct {
	Name    string  `json:"Name"`
	Carrier string  `json:"Carrier"`
	VNom    float64 `json:"VNom"`
}

type Generator struct {
	Name         string  `json:"Name"`
	Bus          string  `json:"Bus"`
	Carrier      string  `json:"Carrier"`
	PNom         float64 `json:"PNom"`
	PNomMax      float64 `json:"PNomMax"`
	Efficiency   float64 `json:"Efficiency"`
	CapitalCost  float64 `json:"CapitalCost"`
	MarginalCost float64 `json:"MarginalCost"`
}

type Load struct {
	Name    string `json:"Name"`
	Bus     string `json:"Bus"`
	Carrier string `json:"Carrier"`
}

type Store struct {
	Name         string  `json:"Name"`
	Bus          string  `json:"Bus"`
	Carrier      string  `json:"Carrier"`
	ENom         float64 `json:"ENom"`
	ENomMax      float64 `json:"ENomMax"`
	CapitalCost  float64 `json:"CapitalCost"`
	MarginalCost float64 `json:"MarginalCost"`
}

type StorageUnit struct {
	Name        string  `json:"Name"`
	Bus         string  `json:"Bus"`
	Carrier     string  `json:"Carrier"`
	PNom        float64 `json:"PNom"`
	PNomMax     float64 `json:"PNomMax"`
	MaxHours    float64 `json:"MaxHours"`
	CapitalCost float64 `json:"CapitalCost"`
}

// Link is a controllable branch, e.g. an electrolyser or fuel cell tying a
// storage chain to the electrical buses.
type Link struct {
	Name         string  `json:"Name"`
	Bus0         string  `json:"Bus0"`
	Bus1         string  `json:"Bus1"`
	Carrier      string  `json:"Carrier"`
	PNom         float64 `json:"PNom"`
	PNomMax      float64 `json:"PNomMax"`
	Efficiency   float64 `json:"Efficiency"`
	CapitalCost  float64 `json:"CapitalCost"`
	MarginalCost float64 `json:"MarginalCost"`
}

type Line struct {
	Name   string  `json:"Name"`
	Bus0   string  `json:"Bus0"`
	Bus1   string  `json:"Bus1"`
	SNom   float64 `json:"SNom"`
	Length float64 `json:"Length"`
}

// LoadSeries holds per-load time series, indexed by load name. Series are
// aligned with Snapshots.
type LoadSeries struct {
	PSet map[string][]float64 `json:"PSet"`
}

// GeneratorSeries holds per-generator time series, indexed by generator
// name.
type GeneratorSeries struct {
	PMaxPu map[string][]float64 `json:"PMaxPu"`
}

// Read loads a network artifact from disk.
func Read(path string) (*Network, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read network %s: %w", path, err)
	}

	n := &Network{}
	if err := json.Unmarshal(raw, n); err != nil {
		return nil, fmt.Errorf("parse network %s: %w", path, err)
	}
	return n, nil
}

// Export writes the network artifact, metadata included.
func (n *Network) Export(path string) error {
	raw, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("encode network: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write network %s: %w", path, err)
	}
	return nil
}

// StoreCarriers returns the sorted unique carriers across all stores.
func (n *Network) StoreCarriers() []string {
	seen := make(map[string]bool)
	carriers := []string{}
	for _, s := range n.Stores {
		if !seen[s.Carrier] {
			seen[s.Carrier] = true
			carriers = append(carriers, s.Carrier)
		}
	}
	sort.Strings(carriers)
	return carriers
}
