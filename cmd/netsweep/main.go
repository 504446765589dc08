package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/netsweep/netsweep_core/internal/pkg/config"
	"github.com/netsweep/netsweep_core/internal/pkg/costs"
	"github.com/netsweep/netsweep_core/internal/pkg/database/mongodb"
	"github.com/netsweep/netsweep_core/internal/pkg/network"
	"github.com/netsweep/netsweep_core/internal/pkg/scenario"
	"github.com/netsweep/netsweep_core/internal/pkg/sweep"
)

func main() {
	configPath := flag.String("config", "./config/sweep.yaml", "run configuration file")
	networkPath := flag.String("network", "", "input network artifact")
	outPath := flag.String("out", "", "output network artifact")
	runToken := flag.String("run", "g0", "run token, e.g. g0 or a2")
	flag.Parse()

	log.Println("[Main] Starting netsweep v0.1.0")

	if *networkPath == "" || *outPath == "" {
		log.Fatal("[Main] -network and -out are required")
	}

	log.Println("[Main] Loading Configuration")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("[Main] Loading Network")
	n, err := network.Read(*networkPath)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Costs != nil {
		log.Println("[Main] Backfilling Costs")
		repo, err := buildCostRepo(cfg.Costs)
		if err != nil {
			log.Fatal(err)
		}
		filled := repo.ApplyDefaults(n)
		log.Printf("[Main] Backfilled capital costs on %d components", filled)
	}

	logRunTokens(cfg, n)

	log.Println("[Main] Applying Scenario", *runToken)
	result, err := sweep.Run(cfg, n, *runToken)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("[Main] Exporting Network")
	if err := n.Export(*outPath); err != nil {
		log.Fatal(err)
	}

	if cfg.Provenance != "" {
		log.Println("[Main] Storing Run Record")
		if err := storeProvenance(cfg.Provenance, result, *outPath); err != nil {
			log.Fatal(err)
		}
	}

	log.Println("[Main] Done")
}

// logRunTokens reports the full token set of the scenario set, so the
// external scheduler range is visible in the run log.
func logRunTokens(cfg *config.Config, n *network.Network) {
	count := cfg.Samples
	if cfg.Method == scenario.MethodSingleBestInWorst {
		count = len(n.StoreCarriers())
	}

	tokens, err := scenario.Tokens(cfg.Method, count)
	if err != nil || len(tokens) == 0 {
		return
	}
	log.Printf("[Main] Scenario set spans run tokens %s..%s", tokens[0], tokens[len(tokens)-1])
}

func buildCostRepo(c *config.Costs) (*costs.Repo, error) {
	if c.Source == "postgres" {
		return costs.FromPostgres(c.DSN)
	}
	return costs.FromCSV(c.Path)
}

func storeProvenance(configPath string, result *sweep.Result, output string) error {
	handler, err := mongodb.New(configPath)
	if err != nil {
		return err
	}

	runID, err := uuid.NewUUID()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	return handler.Store(ctx, mongodb.RunRecord{
		RunID:     runID,
		Method:    result.Method,
		Strategy:  result.Strategy,
		Samples:   len(result.Scenarios),
		Index:     result.Index,
		Features:  result.Features,
		Scenarios: result.Scenarios,
		Output:    output,
	})
}
