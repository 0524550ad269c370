package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"GANTT_ENV", "GANTT_DB_PATH", "GANTT_VIEW", "GANTT_ROW_HEIGHT",
		"GANTT_RENDER_CONFIG", "GANTT_LOG_LEVEL", "GANTT_LOG_FORMAT", "GANTT_LOG_FILE", "GANTT_DEBUG"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, "month", cfg.View)
	assert.Equal(t, 50, cfg.RowHeight)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GANTT_ENV", "production")
	t.Setenv("GANTT_VIEW", "year")
	t.Setenv("GANTT_ROW_HEIGHT", "36")
	t.Setenv("GANTT_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "year", cfg.View)
	assert.Equal(t, 36, cfg.RowHeight)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GANTT_ROW_HEIGHT", "tall")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.RowHeight)

	t.Setenv("GANTT_ROW_HEIGHT", "-4")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.RowHeight)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// godotenv never overrides a variable that is already set, even to ""
	t.Setenv("GANTT_DB_PATH", "")
	os.Unsetenv("GANTT_DB_PATH")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GANTT_DB_PATH=/tmp/plan.db\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/plan.db", cfg.DBPath)
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GANTT_VIEW=\"year\n"), 0o600))

	_, err := Load()
	assert.ErrorContains(t, err, "load .env")
}
