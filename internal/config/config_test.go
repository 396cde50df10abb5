package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "console", c.LogFormat)
	assert.Equal(t, "linear", c.DefaultModel)
	assert.Equal(t, 100, c.ForestTrees)
	assert.Equal(t, int64(42), c.RandomSeed)
	assert.Equal(t, 10, c.ForecastHorizon)
	assert.Equal(t, 100000, c.MaxRows)
	assert.Equal(t, "markdown", c.OutputFormat)
	assert.Equal(t, ":5000", c.ServerAddr)
	assert.Equal(t, 16, c.MaxUploadMB)
	assert.Equal(t, 15, c.ReadTimeoutSec)
	assert.Equal(t, 60, c.WriteTimeoutSec)
	assert.Equal(t, "*", c.CORSOrigin)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Set("default_model", "forest"))
	require.NoError(t, c.Set("forest_trees", "25"))
	require.NoError(t, c.Set("server_addr", "127.0.0.1:8080"))
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "forest", got.DefaultModel)
	assert.Equal(t, 25, got.ForestTrees)
	assert.Equal(t, "127.0.0.1:8080", got.ServerAddr)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_rows: 50\n"), 0o644))
	t.Setenv("INSIGHT_MAX_ROWS", "75")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 75, c.MaxRows)
}

func TestSetRejectsBadValues(t *testing.T) {
	var c Global
	assert.Error(t, c.Set("forest_trees", "many"))
	assert.Error(t, c.Set("default_model", "svm"))
	assert.Error(t, c.Set("log_format", "xml"))
	assert.ErrorContains(t, c.Set("api_key", "x"), "unknown key")
	assert.Len(t, Keys(), 13)
}
