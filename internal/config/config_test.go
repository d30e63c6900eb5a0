package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvEndpoint, EnvLegacyEndpoint, EnvDatabase, EnvAdminPassword, EnvWriteOnly, EnvTimeout, EnvLogFile} {
		t.Setenv(k, "")
	}
}

// inTempDir runs the test from an empty directory so no stray .env is read.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	dir := inTempDir(t)

	cfg, err := Load(filepath.Join(dir, "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Game-time1", cfg.AdminPassword)
	assert.True(t, cfg.WriteOnly)
	assert.Empty(t, cfg.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.GetTimeout())
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	dir := inTempDir(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
endpoint: https://example.com/exec
write_only: false
timeout: 3s
database_path: /tmp/x.db
debug: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/exec", cfg.Endpoint)
	assert.False(t, cfg.WriteOnly)
	assert.Equal(t, 3*time.Second, cfg.GetTimeout())
	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
	assert.True(t, cfg.Debug)

	remote := cfg.Remote()
	assert.Equal(t, "https://example.com/exec", remote.Endpoint)
	assert.False(t, remote.WriteOnly)
	assert.Equal(t, 3*time.Second, remote.Timeout)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	dir := inTempDir(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("legacy endpoint variable", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvLegacyEndpoint, "https://legacy")
		cfg := &Config{}
		cfg.applyEnvOverrides()
		assert.Equal(t, "https://legacy", cfg.Endpoint)
	})

	t.Run("new endpoint variable wins", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvLegacyEndpoint, "https://legacy")
		t.Setenv(EnvEndpoint, "https://new")
		cfg := &Config{Endpoint: "https://file"}
		cfg.applyEnvOverrides()
		assert.Equal(t, "https://new", cfg.Endpoint)
	})

	t.Run("write only parses booleans", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvWriteOnly, "false")
		cfg := &Config{WriteOnly: true}
		cfg.applyEnvOverrides()
		assert.False(t, cfg.WriteOnly)

		t.Setenv(EnvWriteOnly, "garbage")
		cfg = &Config{WriteOnly: true}
		cfg.applyEnvOverrides()
		assert.True(t, cfg.WriteOnly, "unparsable value is ignored")
	})

	t.Run("paths and password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvDatabase, "/data/kiosk.db")
		t.Setenv(EnvLogFile, "/data/kiosk.log")
		t.Setenv(EnvAdminPassword, "s3cret")
		t.Setenv(EnvTimeout, "250ms")
		cfg := &Config{}
		cfg.applyEnvOverrides()
		assert.Equal(t, "/data/kiosk.db", cfg.DatabasePath)
		assert.Equal(t, "/data/kiosk.log", cfg.LogFile)
		assert.Equal(t, "s3cret", cfg.AdminPassword)
		assert.Equal(t, 250*time.Millisecond, cfg.GetTimeout())
	})
}

func TestDotEnv(t *testing.T) {
	clearEnv(t)
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FOODSURVEY_ENDPOINT=https://from-dotenv\n"), 0o644))
	// godotenv does not override set variables, so unset it for the load.
	os.Unsetenv(EnvEndpoint)
	t.Cleanup(func() { os.Unsetenv(EnvEndpoint) })

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://from-dotenv", cfg.Endpoint)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	dir := inTempDir(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Endpoint = "https://saved"
	cfg.Timeout = "7s"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetTimeoutFallback(t *testing.T) {
	for _, v := range []string{"", "soon", "-1s", "0s"} {
		cfg := &Config{Timeout: v}
		assert.Equal(t, 10*time.Second, cfg.GetTimeout(), "timeout %q", v)
	}
}
