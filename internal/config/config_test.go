package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goalhk/internal/infrastructure/env"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, LLMNone, cfg.LLM.Provider)
	assert.Equal(t, StoreMemory, cfg.Store.Jobs)
	assert.Equal(t, 4*time.Second, cfg.Sim.BidLatency)
	assert.True(t, cfg.Store.SeedJobs)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goalhk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9090"
store:
  jobs: sqlite
  sqlite_path: /tmp/jobs.db
simulation:
  bid_latency: 100ms
llm:
  provider: gemini
  api_key: from-file
`), 0o644))

	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("PAYMENT_DELAY", "50ms")

	cfg, err := Load(path, env.NewProcessEnv())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, StoreSQLite, cfg.Store.Jobs)
	assert.Equal(t, "/tmp/jobs.db", cfg.Store.SQLitePath)
	assert.Equal(t, 100*time.Millisecond, cfg.Sim.BidLatency)
	assert.Equal(t, 50*time.Millisecond, cfg.Sim.PaymentDelay)
	assert.Equal(t, LLMGemini, cfg.LLM.Provider)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = "skynet"
	cfg.Store.Jobs = StorePostgres
	cfg.Sim.BidTimeout = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
	assert.Contains(t, err.Error(), "postgres_dsn")
	assert.Contains(t, err.Error(), "bid timeout")
}

func TestValidate_ProviderNeedsKey(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = LLMOpenRouter

	assert.ErrorContains(t, cfg.Validate(), "api key")

	cfg.LLM.APIKey = "sk"
	assert.NoError(t, cfg.Validate())
}
