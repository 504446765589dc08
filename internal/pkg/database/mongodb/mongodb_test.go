package mongodb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"gotest.tools/assert"
)

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mongodb_config.json")
	raw := `{"URI": "mongodb://localhost", "Database": "netsweep", "Port": "27017"}`
	assert.NilError(t, os.WriteFile(path, []byte(raw), 0644))

	h, err := New(path)
	assert.NilError(t, err)
	assert.Equal(t, h.config.URI, "mongodb://localhost")
	assert.Equal(t, h.config.Database, "netsweep")
	assert.Equal(t, h.config.Port, "27017")
}

func TestNewMissingConfig(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.json"))
	assert.Assert(t, err != nil)
}

func TestRecordToBSON(t *testing.T) {
	runID, _ := uuid.NewUUID()
	rec := RunRecord{
		RunID:     runID,
		Method:    "global_sensitivity",
		Strategy:  "scipy",
		Samples:   9,
		Index:     3,
		Features:  []string{"loads_t.p_set"},
		Scenarios: [][]float64{{0.95}},
		Output:    "networks/elec_s_10_g3.json",
	}

	doc := recordToBSON(rec)
	assert.Equal(t, doc[0].Key, "$set")

	set := doc[0].Value.(bson.M)
	assert.Equal(t, set["runId"], runID.String())
	assert.Equal(t, set["method"], "global_sensitivity")
	assert.Equal(t, set["index"], 3)
}
