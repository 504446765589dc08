package mongodb

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Handler persists sweep run records for downstream auditability.
type Handler struct {
	config config
}

type config struct {
	URI      string `json:"URI"`
	Database string `json:"Database"`
	Port     string `json:"Port"`
}

// RunRecord is one provenance document: which scenario of which
// experimental design produced which network artifact.
type RunRecord struct {
	RunID     uuid.UUID
	Method    string
	Strategy  string
	Samples   int
	Index     int
	Features  []string
	Scenarios [][]float64
	Output    string
}

func New(configPath string) (Handler, error) {
	jsonConfig, err := os.ReadFile(configPath)
	if err != nil {
		return Handler{}, err
	}
	cfg := config{}
	if err := json.Unmarshal(jsonConfig, &cfg); err != nil {
		return Handler{}, err
	}

	return Handler{config: cfg}, nil
}

func recordToBSON(rec RunRecord) bson.D {
	return bson.D{
		{Key: "$set", Value: bson.M{
			"runId":     rec.RunID.String(),
			"method":    rec.Method,
			"strategy":  rec.Strategy,
			"samples":   rec.Samples,
			"index":     rec.Index,
			"features":  rec.Features,
			"scenarios": rec.Scenarios,
			"output":    rec.Output,
			"writtenAt": time.Now().UTC(),
		}},
	}
}

// Store upserts a run record into the sweepRuns collection. One document
// per run UUID; re-running an invocation overwrites its record.
func (h Handler) Store(ctx context.Context, rec RunRecord) error {
	client, err := mongo.NewClient(options.Client().ApplyURI(h.config.URI + ":" + h.config.Port))
	if err != nil {
		return err
	}

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	opts := options.Update().SetUpsert(true)
	_, err = client.Database(h.config.Database).Collection("sweepRuns").UpdateOne(
		ctx,
		bson.M{"runId": rec.RunID.String()},
		recordToBSON(rec),
		opts,
	)
	if err != nil {
		return err
	}

	log.Println("[Mongo] Stored run record", rec.RunID)
	return nil
}
