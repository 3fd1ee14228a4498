package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seo-tag-analyzer/internal/crawler"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithFile(""))
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	require.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	require.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	require.Equal(t, 5*time.Second, cfg.Fetch.DialTimeout)
	require.Equal(t, int64(5*1024*1024), cfg.Fetch.MaxBytes)
	require.Equal(t, crawler.DefaultUserAgent, cfg.Fetch.UserAgent)
	require.Equal(t, "seo.db", cfg.Store.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.True(t, cfg.MCP.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	env := map[string]string{
		"SEO_SERVER_ADDR":     "127.0.0.1:9090",
		"SEO_FETCH_TIMEOUT":   "3s",
		"SEO_FETCH_MAX_BYTES": "1024",
		"SEO_STORE_PATH":      "/tmp/x.db",
		"SEO_LOG_LEVEL":       "DEBUG",
		"SEO_MCP_ENABLED":     "off",
	}
	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithFile(""))
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	require.Equal(t, 3*time.Second, cfg.Fetch.Timeout)
	require.Equal(t, int64(1024), cfg.Fetch.MaxBytes)
	require.Equal(t, "/tmp/x.db", cfg.Store.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.False(t, cfg.MCP.Enabled)
}

func TestLoadYAMLFileWithEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seo.yaml")
	content := `
server:
  addr: ":7000"
  read_timeout: 2s
fetch:
  timeout: 4s
  user_agent: test-agent
store:
  path: file.db
log:
  level: warn
mcp:
  enabled: "false"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(WithFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{"SEO_STORE_PATH": "env.db"}))
	require.NoError(t, err)

	require.Equal(t, ":7000", cfg.Server.Addr)
	require.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, 4*time.Second, cfg.Fetch.Timeout)
	require.Equal(t, "test-agent", cfg.Fetch.UserAgent)
	require.Equal(t, "env.db", cfg.Store.Path)
	require.Equal(t, "warn", cfg.Log.Level)
	require.False(t, cfg.MCP.Enabled)
}

func TestLoadFileFromEnvVariable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  path: from-file.db\n"), 0o600))

	cfg, err := Load(WithoutSystemEnv(), WithEnvMap(map[string]string{EnvConfigFile: path}))
	require.NoError(t, err)
	require.Equal(t, "from-file.db", cfg.Store.Path)
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	_, err := Load(WithoutSystemEnv(), WithFile(filepath.Join(t.TempDir(), "absent.yaml")))
	require.NoError(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(WithoutSystemEnv(), WithFile(path))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unable to parse")
}

func TestLoadValidation(t *testing.T) {
	env := map[string]string{
		"SEO_FETCH_TIMEOUT":   "soon",
		"SEO_FETCH_MAX_BYTES": "-1",
		"SEO_LOG_LEVEL":       "loud",
		"SEO_SERVER_ADDR":     "   ",
	}
	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithFile(""))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := verr.Fields()
	require.Contains(t, fields, "SEO_FETCH_TIMEOUT")
	require.Contains(t, fields, "Fetch.MaxBytes")
	require.Contains(t, fields, "Log.Level")
	require.NotContains(t, fields, "Server.Addr", "blank values fall back to the default")
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "SEO_STORE_PATH=dotenv.db\nSEO_LOG_LEVEL=warn\n# comment\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(WithoutSystemEnv(), WithFile(""), WithDotEnv(path),
		WithEnvMap(map[string]string{"SEO_LOG_LEVEL": "error"}))
	require.NoError(t, err)
	require.Equal(t, "dotenv.db", cfg.Store.Path)
	require.Equal(t, "error", cfg.Log.Level, "explicit values win over the dotenv file")

	_, err = Load(WithoutSystemEnv(), WithFile(""), WithDotEnv(filepath.Join(t.TempDir(), "absent.env")))
	require.NoError(t, err)
}
