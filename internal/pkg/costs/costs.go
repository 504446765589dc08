package costs

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/netsweep/netsweep_core/internal/pkg/network"
)

// Cost holds the economic parameters of one technology.
type Cost struct {
	Technology   string  `db:"technology"`
	CapitalCost  float64 `db:"capital_cost"`
	MarginalCost float64 `db:"marginal_cost"`
	Lifetime     float64 `db:"lifetime"`
	FOM          float64 `db:"fom"`
}

// Repo is an in-memory view of the cost database, keyed by technology.
type Repo struct {
	byTech map[string]Cost
}

// FromCSV loads a cost table from a CSV file with the header
// technology,capital_cost,marginal_cost,lifetime,fom.
func FromCSV(path string) (*Repo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open costs %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read costs header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"technology", "capital_cost"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("costs %s: missing column %q", path, required)
		}
	}

	repo := &Repo{byTech: make(map[string]Cost)}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read costs row: %w", err)
		}

		c := Cost{Technology: record[col["technology"]]}
		c.CapitalCost, err = strconv.ParseFloat(record[col["capital_cost"]], 64)
		if err != nil {
			return nil, fmt.Errorf("costs %s: bad capital_cost for %s: %w", path, c.Technology, err)
		}
		if i, ok := col["marginal_cost"]; ok {
			c.MarginalCost, _ = strconv.ParseFloat(record[i], 64)
		}
		if i, ok := col["lifetime"]; ok {
			c.Lifetime, _ = strconv.ParseFloat(record[i], 64)
		}
		if i, ok := col["fom"]; ok {
			c.FOM, _ = strconv.ParseFloat(record[i], 64)
		}
		repo.byTech[c.Technology] = c
	}
	return repo, nil
}

// FromPostgres loads the technology_costs table from a Postgres database.
func FromPostgres(dsn string) (*Repo, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect costs database: %w", err)
	}
	defer db.Close()

	var rows []Cost
	query := `SELECT technology, capital_cost, marginal_cost, lifetime, fom
	          FROM technology_costs`
	if err := db.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("query costs: %w", err)
	}

	repo := &Repo{byTech: make(map[string]Cost, len(rows))}
	for _, c := range rows {
		repo.byTech[c.Technology] = c
	}
	return repo, nil
}

// Lookup returns the cost record for a technology.
func (r *Repo) Lookup(technology string) (Cost, bool) {
	c, ok := r.byTech[technology]
	return c, ok
}

// ApplyDefaults backfills zero-valued capital costs on stores, links and
// generators from the cost table, matching components by carrier. Returns
// the number of components touched.
func (r *Repo) ApplyDefaults(n *network.Network) int {
	filled := 0
	for i := range n.Stores {
		if n.Stores[i].CapitalCost != 0 {
			continue
		}
		if c, ok := r.byTech[n.Stores[i].Carrier]; ok {
			n.Stores[i].CapitalCost = c.CapitalCost
			filled++
		}
	}
	for i := range n.Links {
		if n.Links[i].CapitalCost != 0 {
			continue
		}
		if c, ok := r.byTech[n.Links[i].Carrier]; ok {
			n.Links[i].CapitalCost = c.CapitalCost
			filled++
		}
	}
	for i := range n.Generators {
		if n.Generators[i].CapitalCost != 0 {
			continue
		}
		if c, ok := r.byTech[n.Generators[i].Carrier]; ok {
			n.Generators[i].CapitalCost = c.CapitalCost
			n.Generators[i].MarginalCost = c.MarginalCost
			filled++
		}
	}
	return filled
}
