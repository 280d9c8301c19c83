package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "/wda", cfg.ServiceBase)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, DefaultRunResultTimeoutSeconds, cfg.RunResultTimeoutSeconds)
	assert.Equal(t, DefaultMaxConcurrentRuns, cfg.MaxConcurrentRuns)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_NoFile_ReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ValidConfig_OverridesDefaults(t *testing.T) {
	content := `
serviceBase: /wda
listenAddr: "0.0.0.0:9090"
databaseUrl: "postgres://localhost/wdx"
runResultTimeoutSeconds: 45
maxConcurrentRuns: 500
allowUnauthenticatedScanDevices: true
`
	path := writeTemp(t, content)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/wda", cfg.ServiceBase)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "postgres://localhost/wdx", cfg.DatabaseURL)
	assert.Equal(t, 45, cfg.RunResultTimeoutSeconds)
	assert.Equal(t, 500, cfg.MaxConcurrentRuns)
	assert.True(t, cfg.AllowUnauthenticatedScanDevices)
}

func TestLoad_PartialConfig_FillsDefaults(t *testing.T) {
	path := writeTemp(t, "listenAddr: \":9999\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/wda", cfg.ServiceBase)
	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, DefaultRunResultTimeoutSeconds, cfg.RunResultTimeoutSeconds)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	path := writeTemp(t, "{{not yaml")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidListenAddr_ReturnsError(t *testing.T) {
	path := writeTemp(t, "listenAddr: \"not-an-addr\"\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ServiceBaseMustStartWithSlash(t *testing.T) {
	path := writeTemp(t, "serviceBase: \"wda\"\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ServiceBaseMustNotEndWithSlash(t *testing.T) {
	path := writeTemp(t, "serviceBase: \"/wda/\"\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_NegativeTimeout_ReturnsError(t *testing.T) {
	path := writeTemp(t, "runResultTimeoutSeconds: -5\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestResolvePath_EnvVar_TakesPriority(t *testing.T) {
	tmp := writeTemp(t, "serviceBase: /wda")
	t.Setenv("WDX_GATEWAY_CONFIG", tmp)

	path := ResolvePath()
	assert.Equal(t, tmp, path)
}

func TestResolvePath_NoEnvVar_FallsBackToDefault(t *testing.T) {
	t.Setenv("WDX_GATEWAY_CONFIG", "")

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "wdx-gateway.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("serviceBase: /wda"), 0o644))

	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(origDir) }()

	path := ResolvePath()
	assert.Equal(t, "wdx-gateway.yaml", path)
}

func TestResolvePath_NoEnvVar_NoFile_ReturnsEmpty(t *testing.T) {
	t.Setenv("WDX_GATEWAY_CONFIG", "")

	dir := t.TempDir()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(origDir) }()

	path := ResolvePath()
	assert.Equal(t, "", path)
}

// writeTemp creates a temporary YAML file and returns its path.
func writeTemp(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "*.yaml")
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}
