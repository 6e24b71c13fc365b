package risk

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/gtfs"
)

var _ FeatureSource = (*gtfs.GTFSIndex)(nil)

type fakeFeed struct {
	seqs map[string][]string
	km   map[string]float64
}

func (f fakeFeed) TripIDs() []string {
	ids := make([]string, 0, len(f.seqs))
	for id := range f.seqs {
		ids = append(ids, id)
	}
	return ids
}

func (f fakeFeed) TripStopSequence(tripID string) []string { return f.seqs[tripID] }

func (f fakeFeed) TripDistanceKM(tripID string) float64 { return f.km[tripID] }

func TestExtractFeatures(t *testing.T) {
	feed := fakeFeed{
		seqs: map[string][]string{
			"B": {"S1", "S2", "S3"},
			"A": {"S1", "GHOST", "S2"},
			"C": {},
		},
		km: map[string]float64{"B": 12.5},
	}

	got := ExtractFeatures(feed)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{got[0].TripID, got[1].TripID, got[2].TripID})

	assert.Equal(t, 0.0, got[0].TotalDistanceKM)
	assert.Equal(t, 3, got[0].StopCount)
	assert.Equal(t, 12.5, got[1].TotalDistanceKM)
	assert.Equal(t, 0, got[2].StopCount)
}

func TestExtractFeatures_FromIndex(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"stops.txt": "stop_id,stop_lat,stop_lon\nS1,0,0\nS2,0,1\nS3,0,2\nGHOST,,\n",
		"stop_times.txt": "trip_id,stop_id,stop_sequence\n" +
			"A,S1,1\nA,GHOST,2\nA,S2,3\n" +
			"B,S1,1\nB,S2,2\nB,S3,3\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	idx, err := gtfs.LoadFromPath(dir, "")
	require.NoError(t, err)

	got := ExtractFeatures(idx)
	require.Len(t, got, 2)

	oneDeg := gtfs.HaversineKM(0, 0, 0, 1)
	assert.Equal(t, 0.0, got[0].TotalDistanceKM, "segments touching an unknown stop add nothing")
	assert.Equal(t, 3, got[0].StopCount)
	assert.InDelta(t, 2*oneDeg, got[1].TotalDistanceKM, 1e-9)
	assert.Equal(t, idx.TripDistanceKM("B"), got[1].TotalDistanceKM)
}

func TestEstimate_KnownValues(t *testing.T) {
	est := NewEstimator(DefaultParams().WithoutJitter(), nil)

	got := est.Estimate([]TripFeatures{
		{TripID: "A", TotalDistanceKM: 10, StopCount: 4},
		{TripID: "B", TotalDistanceKM: 5, StopCount: 2},
	})

	require.Len(t, got, 2)
	assert.Equal(t, RiskScore{TripID: "A", DelayProbability: 0.37, AccidentProbability: 0.024}, got[0])
	assert.Equal(t, RiskScore{TripID: "B", DelayProbability: 0.21, AccidentProbability: 0.017}, got[1])
}

func TestEstimate_DegenerateInputs(t *testing.T) {
	est := NewEstimator(DefaultParams().WithoutJitter(), nil)

	t.Run("empty batch", func(t *testing.T) {
		got := est.Estimate(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("zero maximum distance", func(t *testing.T) {
		got := est.Estimate([]TripFeatures{{TripID: "Z"}, {TripID: "Y", StopCount: 2}})
		assert.Equal(t, 0.05, got[0].DelayProbability)
		assert.Equal(t, 0.01, got[0].AccidentProbability)
		assert.Equal(t, 0.06, got[1].DelayProbability)
		assert.Equal(t, 0.012, got[1].AccidentProbability)
	})
}

func TestEstimate_StaysWithinCaps(t *testing.T) {
	est := NewEstimator(DefaultParams(), NewRand(7))

	var features []TripFeatures
	for i := 0; i < 500; i++ {
		features = append(features, TripFeatures{
			TripID:          "T",
			TotalDistanceKM: float64(i % 37),
			StopCount:       (i * 13) % 400,
		})
	}

	for _, s := range est.Estimate(features) {
		assert.GreaterOrEqual(t, s.DelayProbability, 0.0)
		assert.LessOrEqual(t, s.DelayProbability, DelayCap)
		assert.GreaterOrEqual(t, s.AccidentProbability, 0.0)
		assert.LessOrEqual(t, s.AccidentProbability, AccidentCap)
	}
}

func TestEstimate_ConfiguredCapCannotRaiseCeiling(t *testing.T) {
	params := DefaultParams().WithoutJitter()
	params.Delay.Base = 0.9
	params.Delay.Cap = 1
	params.Accident.Base = 0.5
	params.Accident.Cap = 1

	got := NewEstimator(params, nil).Estimate([]TripFeatures{{TripID: "A", TotalDistanceKM: 10, StopCount: 40}})
	require.Len(t, got, 1)
	assert.Equal(t, DelayCap, got[0].DelayProbability)
	assert.Equal(t, AccidentCap, got[0].AccidentProbability)

	params.Delay.Cap = 0.1
	got = NewEstimator(params, nil).Estimate([]TripFeatures{{TripID: "A", TotalDistanceKM: 10, StopCount: 40}})
	assert.Equal(t, 0.1, got[0].DelayProbability, "a lower cap still applies")
}

func TestEstimate_RoundsToFieldPrecision(t *testing.T) {
	est := NewEstimator(DefaultParams(), NewRand(99))
	got := est.Estimate([]TripFeatures{
		{TripID: "A", TotalDistanceKM: 3.3, StopCount: 7},
		{TripID: "B", TotalDistanceKM: 9.1, StopCount: 11},
	})
	for _, s := range got {
		assert.InDelta(t, math.Round(s.DelayProbability*100)/100, s.DelayProbability, 1e-12)
		assert.InDelta(t, math.Round(s.AccidentProbability*1000)/1000, s.AccidentProbability, 1e-12)
	}
}

func TestEstimate_Monotonic(t *testing.T) {
	est := NewEstimator(DefaultParams().WithoutJitter(), nil)

	got := est.Estimate([]TripFeatures{
		{TripID: "short", TotalDistanceKM: 1, StopCount: 3},
		{TripID: "more-stops", TotalDistanceKM: 1, StopCount: 9},
		{TripID: "longer", TotalDistanceKM: 8, StopCount: 9},
	})
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].DelayProbability, got[i-1].DelayProbability)
		assert.GreaterOrEqual(t, got[i].AccidentProbability, got[i-1].AccidentProbability)
	}
}

func TestEstimate_Reproducibility(t *testing.T) {
	features := []TripFeatures{
		{TripID: "A", TotalDistanceKM: 12.5, StopCount: 20},
		{TripID: "B", TotalDistanceKM: 4.2, StopCount: 8},
	}

	t.Run("without jitter output is byte-identical", func(t *testing.T) {
		a, err := json.Marshal(NewEstimator(DefaultParams().WithoutJitter(), NewRand(0)).Estimate(features))
		require.NoError(t, err)
		b, err := json.Marshal(NewEstimator(DefaultParams().WithoutJitter(), NewRand(0)).Estimate(features))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b))
	})

	t.Run("same seed gives same jitter", func(t *testing.T) {
		a := NewEstimator(DefaultParams(), NewRand(42)).Estimate(features)
		b := NewEstimator(DefaultParams(), NewRand(42)).Estimate(features)
		assert.Equal(t, a, b)
	})
}

func TestTable_WriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "route_probs.json")
	scores := []RiskScore{
		{TripID: "T1", DelayProbability: 0.25, AccidentProbability: 0.03},
		{TripID: "T2", DelayProbability: 0.1, AccidentProbability: 0.011},
	}
	require.NoError(t, WriteTable(path, scores))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"delay_prob": 0.25`)
	assert.Contains(t, string(raw), `"accident_prob": 0.03`)

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, scores, table.All())

	got, ok := table.Lookup("T1")
	require.True(t, ok)
	assert.Equal(t, scores[0], got)

	_, ok = table.Lookup("T404")
	assert.False(t, ok)
	assert.Len(t, table.ByTrip(), 2)
}

func TestTable_EmptyBatchWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route_probs.json")
	require.NoError(t, WriteTable(path, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestLoadTable_Errors(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = LoadTable(bad)
	assert.Error(t, err)
}
