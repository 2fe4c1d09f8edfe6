package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvService_Getters(t *testing.T) {
	t.Setenv("GOALHK_TEST_STR", "hello")
	t.Setenv("GOALHK_TEST_BOOL", "true")
	t.Setenv("GOALHK_TEST_DUR", "1500ms")
	t.Setenv("GOALHK_TEST_BAD", "nope")

	e := NewProcessEnv()

	assert.Equal(t, "hello", e.Get("GOALHK_TEST_STR"))
	assert.Equal(t, "fallback", e.GetWithDefault("GOALHK_TEST_MISSING", "fallback"))
	assert.True(t, e.GetBool("GOALHK_TEST_BOOL", false))
	assert.False(t, e.GetBool("GOALHK_TEST_BAD", false))
	assert.Equal(t, 1500*time.Millisecond, e.GetDuration("GOALHK_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, e.GetDuration("GOALHK_TEST_BAD", time.Second))
}

func TestNewEnvService_OverlayWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GOALHK_TEST_LAYER=base\nGOALHK_TEST_BASE_ONLY=1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte("GOALHK_TEST_LAYER=overlay\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("APP_ENV", "test")
	// Registered with t.Setenv so the values are restored after the test.
	t.Setenv("GOALHK_TEST_LAYER", "")
	t.Setenv("GOALHK_TEST_BASE_ONLY", "")
	os.Unsetenv("GOALHK_TEST_LAYER")
	os.Unsetenv("GOALHK_TEST_BASE_ONLY")

	e := NewEnvService()

	assert.Equal(t, []string{".env", ".env.test"}, e.Loaded)
	assert.Equal(t, "overlay", e.Get("GOALHK_TEST_LAYER"))
	assert.Equal(t, "1", e.Get("GOALHK_TEST_BASE_ONLY"))
}

func TestNewEnvService_NoFiles(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	assert.Empty(t, NewEnvService().Loaded)
}
