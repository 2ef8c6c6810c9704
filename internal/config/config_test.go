package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/zschema"
	"github.com/reoring/zschema/internal/config"
)

// chdir isolates the test from a .zschema.json in the package directory.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Indent)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, zschema.DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, "error", cfg.Duplicates)
	assert.Equal(t, "  ", cfg.IndentString())

	_, set, err := cfg.RunPolicy()
	require.NoError(t, err)
	assert.False(t, set)
}

func TestLoad_Precedence(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"jobs": 8, "indent": 4, "policy": "warn"}`), 0o644))
	t.Setenv("ZSCHEMA_JOBS", "16")
	t.Setenv("ZSCHEMA_LOG_FORMAT", "json")

	cfg, err := config.Load(path, map[string]any{"log_format": "text"})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Indent, "file beats defaults")
	assert.Equal(t, 16, cfg.Jobs, "environment beats file")
	assert.Equal(t, "text", cfg.LogFormat, "flags beat environment")

	p, set, err := cfg.RunPolicy()
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, zschema.PolicyWarn, p)
}

func TestLoad_DefaultFile(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte(`{"max_depth": 32}`), 0o644))
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.MaxDepth)
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t)
	_, err := config.Load("", map[string]any{"jobs": 0})
	assert.Error(t, err)

	_, err = config.Load("", map[string]any{"log_level": "loud"})
	assert.Error(t, err)

	_, err = config.Load("does-not-exist.json", nil)
	assert.Error(t, err)
}
