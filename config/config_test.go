package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/risk"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfigPath, EnvAPIKey, EnvModel, EnvPort} {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 400, cfg.LLM.MaxTokens)
	assert.Equal(t, 0.6, cfg.LLM.Temperature)
	assert.Equal(t, 0.4, cfg.Risk.Params.Delay.Cap)
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9090
llm:
  model: some/other-model
risk:
  seed: 42
  params:
    delay:
      jitter: 0
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "some/other-model", cfg.LLM.Model)
	assert.Equal(t, 400, cfg.LLM.MaxTokens, "unset fields keep defaults")
	assert.Equal(t, uint64(42), cfg.Risk.Seed)
	assert.Equal(t, 0.0, cfg.Risk.Params.Delay.Jitter)
	assert.Equal(t, 0.3, cfg.Risk.Params.Delay.DistanceWeight)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_RaisedCapsStillBoundScores(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
risk:
  params:
    delay:
      base: 0.9
      jitter: 0
      cap: 1
    accident:
      base: 0.9
      jitter: 0
      cap: 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	scores := risk.NewEstimator(cfg.Risk.Params, nil).Estimate([]risk.TripFeatures{
		{TripID: "T1", TotalDistanceKM: 12, StopCount: 30},
	})
	require.Len(t, scores, 1)
	assert.LessOrEqual(t, scores[0].DelayProbability, risk.DelayCap)
	assert.LessOrEqual(t, scores[0].AccidentProbability, risk.AccidentCap)
}

func TestLoad_AgencyID(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, "gtfs:\n  staticURL: feed.zip\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.GTFS.AgencyID, "agency id is optional")

	cfg, err = Load(writeConfig(t, "gtfs:\n  staticURL: feed.zip\n  agency_id: SOFIA\n"))
	require.NoError(t, err)
	assert.Equal(t, "SOFIA", cfg.GTFS.AgencyID)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv(EnvAPIKey, "hf_secret")
	t.Setenv(EnvModel, "env/model")
	t.Setenv(EnvPort, "7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hf_secret", cfg.LLM.APIKey)
	assert.Equal(t, "env/model", cfg.LLM.Model)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigPath, writeConfig(t, "server:\n  port: 1234\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "malformed yaml", body: "server: [unterminated"},
		{name: "invalid port", body: "server:\n  port: -1\n"},
		{name: "invalid endpoint", body: "llm:\n  endpoint: not a url\n"},
		{name: "invalid log level", body: "logging:\n  level: loud\n"},
		{name: "jitter out of range", body: "risk:\n  params:\n    accident:\n      jitter: 3\n"},
		{name: "non-numeric port env", body: "", env: map[string]string{EnvPort: "eighty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	t.Run("explicit path must exist", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})
}
