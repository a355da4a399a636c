package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigPath(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		envValue string
		want     string
	}{
		{"flag takes precedence", "/path/from/flag", "/path/from/env", "/path/from/flag"},
		{"env when no flag", "", "/path/from/env", "/path/from/env"},
		{"empty when neither", "", "", ""},
		{"whitespace flag", "  ", "/path/from/env", "/path/from/env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RESOLVER_CONFIG", tt.envValue)
			got := ResolveConfigPath(tt.flag)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Len(t, cfg.Resolver.Nameservers, 1)
	assert.Equal(t, "8.8.8.8:53", cfg.Resolver.Nameservers[0])
	assert.Equal(t, 3, cfg.Resolver.MaxRetries)
	assert.True(t, cfg.Resolver.Recurse)
	assert.Equal(t, 1232, cfg.Resolver.DNSSECPayloadSize)
}

func TestLoadFromFile(t *testing.T) {
	content := `
resolver:
  nameservers:
    - "1.1.1.1:53"
    - "9.9.9.9:53"
  use_tcp: true
  strict_query_mode: true

logging:
  level: "DEBUG"
  structured: true
  structured_format: "json"
`
	dir := t.TempDir()
	path := filepath.Join(dir, "test-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Resolver.Nameservers, 2)
	assert.True(t, cfg.Resolver.UseTCP)
	assert.True(t, cfg.Resolver.StrictQueryMode)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Structured)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path/to/config.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resolver:\n  max_retries: [invalid"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNormalizeTruncatesServers(t *testing.T) {
	content := `
resolver:
  nameservers:
    - "1.1.1.1"
    - "8.8.8.8"
    - "9.9.9.9"
    - "208.67.222.222"
    - "208.67.220.220"
`
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Resolver.Nameservers, 3, "expected nameservers to be truncated to 3")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RESOLVER_RESOLVER_NAMESERVERS", "1.1.1.1, 8.8.8.8:53")
	t.Setenv("RESOLVER_RESOLVER_USE_TCP", "true")
	t.Setenv("RESOLVER_RESOLVER_STRICT_QUERY_MODE", "true")
	t.Setenv("RESOLVER_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Len(t, cfg.Resolver.Nameservers, 2)
	assert.True(t, cfg.Resolver.UseTCP)
	assert.True(t, cfg.Resolver.StrictQueryMode)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestToOptions(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	opts, err := cfg.ToOptions()
	require.NoError(t, err)
	assert.Equal(t, cfg.Resolver.Nameservers, opts.Nameservers)
	assert.Equal(t, 3*time.Second, opts.Timeout)
}
