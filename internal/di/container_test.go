package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goalhk/internal/config"
)

func TestNewContainer_Defaults(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "error"

	c, err := NewContainer(context.Background(), &cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.LLM)
	jobs, err := c.JobBoard.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.NotNil(t, c.HTTP)
}

func TestNewContainer_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.Store.Jobs = config.StoreSQLite
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "jobs.db")

	c, err := NewContainer(context.Background(), &cfg)
	require.NoError(t, err)
	defer c.Close()

	jobs, err := c.JobBoard.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestNewContainer_OpenRouter(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.LLM.Provider = config.LLMOpenRouter
	cfg.LLM.APIKey = "test-key"

	c, err := NewContainer(context.Background(), &cfg)
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.LLM)
	assert.Contains(t, c.LLM.Name(), "openrouter")
}

func TestNewContainer_BadLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "loud"

	_, err := NewContainer(context.Background(), &cfg)
	assert.Error(t, err)
}
