package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every env var the loader may write, restoring them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvRequiredVersion, EnvLogLevel, EnvLogFormat, EnvStateDB, EnvConfig} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	path, err := Load("", slog.Default())
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "typo.yaml")
	path, err := Load(missing, slog.Default())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "typo.yaml")
	assert.Empty(t, path)
}

func TestLoad_ValidFile(t *testing.T) {
	clearEnv(t)

	cfgPath := writeConfig(t, `
required_version: ">= 1.2"
logging:
  level: debug
  format: text
state:
  db_path: /var/lib/netatmo-cli/state.db
`)

	loaded, err := Load(cfgPath, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, cfgPath, loaded)

	checks := map[string]string{
		EnvRequiredVersion: ">= 1.2",
		EnvLogLevel:        "debug",
		EnvLogFormat:       "text",
		EnvStateDB:         "/var/lib/netatmo-cli/state.db",
	}
	for k, want := range checks {
		assert.Equal(t, want, os.Getenv(k), k)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)

	cfgPath := writeConfig(t, `
logging:
  level: debug
`)

	// Set env var BEFORE loading — it should NOT be overwritten.
	t.Setenv(EnvLogLevel, "error")

	_, err := Load(cfgPath, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "error", os.Getenv(EnvLogLevel))
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	cfgPath := writeConfig(t, "logging: [unterminated")

	_, err := Load(cfgPath, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestResolveConfigPath_EnvVar(t *testing.T) {
	clearEnv(t)

	cfgPath := writeConfig(t, "logging:\n  level: info\n")
	t.Setenv(EnvConfig, cfgPath)

	assert.Equal(t, cfgPath, resolveConfigPath(""))
}

func TestResolveConfigPath_ExplicitMissing(t *testing.T) {
	t.Parallel()

	assert.Empty(t, resolveConfigPath(filepath.Join(t.TempDir(), "missing.yaml")))
}
