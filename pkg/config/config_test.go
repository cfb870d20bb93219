package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `bind_addr: "0.0.0.0"
port: "9090"
env: "staging"
workbook:
  path: "exports/listing.xlsx"
auth:
  enable_verification: false
redis:
  host: "localhost"
  view_ttl_seconds: 60
`

func writeConfig(t *testing.T, yaml string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/config.yaml", []byte(yaml), 0o644))
	t.Chdir(dir)
}

func TestLoadFromYAML(t *testing.T) {
	writeConfig(t, testYAML)
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg, err := Load("1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.BindAddr)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "exports/listing.xlsx", cfg.Workbook.Path)
	assert.False(t, cfg.Auth.EnableVerification)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 60, cfg.Redis.ViewTTLSeconds)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	writeConfig(t, testYAML)
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("PORT", "7070")
	t.Setenv("WORKBOOK_PATH", "/data/export.xlsx")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "/data/export.xlsx", cfg.Workbook.Path)
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	writeConfig(t, testYAML)
	t.Setenv("SESSION_SECRET", "")

	_, err := Load("dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoadRequiresJWKSWhenVerifying(t *testing.T) {
	writeConfig(t, `workbook:
  path: "export.xlsx"
auth:
  enable_verification: true
`)
	t.Setenv("SESSION_SECRET", "test-secret")

	_, err := Load("dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWKS_ENDPOINTS")
}

func TestLoadParsesJWKSEndpoints(t *testing.T) {
	writeConfig(t, `workbook:
  path: "export.xlsx"
auth:
  enable_verification: true
  jwks_endpoints: "https://accounts.example.com=https://accounts.example.com/jwks.json, https://id.example.org=https://id.example.org/keys"
`)
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"https://accounts.example.com": "https://accounts.example.com/jwks.json",
		"https://id.example.org":       "https://id.example.org/keys",
	}, cfg.Auth.JWKSEndpoints)
}

func TestParseJWKSEndpointsMalformedPairsSkipped(t *testing.T) {
	got := parseJWKSEndpoints("a=1,garbage,b=2")
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, got)
}
