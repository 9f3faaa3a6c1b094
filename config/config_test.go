package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/mydropbox/config"
)

// isolate runs the test from an empty directory with no endpoint in the
// environment and an empty home directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())
	t.Setenv("API_GATEWAY", "")
	t.Setenv("MYDROPBOX_GATEWAY_ENDPOINT", "")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("endpoint", "", "")
	flags.String("api-prefix", "", "")
	flags.Duration("timeout", 0, "")
	flags.String("log-level", "", "")
	flags.String("log-format", "", "")
	flags.String("output", "", "")
	flags.String("dir", "", "")
	return flags
}

func TestLoad_MissingEndpoint(t *testing.T) {
	isolate(t)

	_, err := config.Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Endpoint")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("API_GATEWAY", "https://api.example.com")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.Gateway.Endpoint)
	assert.Equal(t, "/act5/api/v1", cfg.Gateway.APIPrefix)
	assert.Equal(t, time.Duration(0), cfg.Gateway.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, ".", cfg.Files.Dir)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "API_GATEWAY=https://dotenv.example.com\n")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://dotenv.example.com", cfg.Gateway.Endpoint)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	configPath := filepath.Join(dir, "custom.yaml")

	writeFile(t, configPath, `
gateway:
  endpoint: https://file.example.com
  api_prefix: /prod
  timeout: 30s
log:
  level: debug
  format: json
output:
  format: yaml
files:
  dir: /tmp/downloads
`)

	cfg, err := config.Load(configPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.Gateway.Endpoint)
	assert.Equal(t, "/prod", cfg.Gateway.APIPrefix)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "/tmp/downloads", cfg.Files.Dir)
}

func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	dir := isolate(t)

	_, err := config.Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_WorkingDirConfig(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.yaml"), "gateway:\n  endpoint: https://cwd.example.com\n")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cwd.example.com", cfg.Gateway.Endpoint)
}

func TestLoad_HomeConfig(t *testing.T) {
	isolate(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".mydropbox"), 0o700))
	writeFile(t, filepath.Join(home, ".mydropbox", "config.yaml"), "gateway:\n  endpoint: https://home.example.com\n")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://home.example.com", cfg.Gateway.Endpoint)
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "API_GATEWAY=https://dotenv.example.com\n")
	writeFile(t, filepath.Join(dir, "config.yaml"), `
gateway:
  endpoint: https://file.example.com
log:
  level: info
output:
  format: json
`)

	t.Run("file beats dotenv", func(t *testing.T) {
		cfg, err := config.Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, "https://file.example.com", cfg.Gateway.Endpoint)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("env beats file", func(t *testing.T) {
		t.Setenv("MYDROPBOX_GATEWAY_ENDPOINT", "https://env.example.com")
		t.Setenv("MYDROPBOX_LOG_LEVEL", "error")

		cfg, err := config.Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, "https://env.example.com", cfg.Gateway.Endpoint)
		assert.Equal(t, "error", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Output.Format)
	})

	t.Run("flags beat env", func(t *testing.T) {
		t.Setenv("MYDROPBOX_GATEWAY_ENDPOINT", "https://env.example.com")

		flags := newFlags(t)
		require.NoError(t, flags.Parse([]string{"--endpoint", "https://flag.example.com", "--output", "yaml"}))

		cfg, err := config.Load("", flags)
		require.NoError(t, err)
		assert.Equal(t, "https://flag.example.com", cfg.Gateway.Endpoint)
		assert.Equal(t, "yaml", cfg.Output.Format)
	})

	t.Run("unchanged flags are ignored", func(t *testing.T) {
		flags := newFlags(t)
		require.NoError(t, flags.Parse(nil))

		cfg, err := config.Load("", flags)
		require.NoError(t, err)
		assert.Equal(t, "https://file.example.com", cfg.Gateway.Endpoint)
		assert.Equal(t, "info", cfg.Log.Level)
	})
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"relative endpoint", "gateway:\n  endpoint: not-a-url\n"},
		{"bad log level", "gateway:\n  endpoint: https://a.example.com\nlog:\n  level: loud\n"},
		{"bad output format", "gateway:\n  endpoint: https://a.example.com\noutput:\n  format: xml\n"},
		{"negative timeout", "gateway:\n  endpoint: https://a.example.com\n  timeout: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "config.yaml")
			writeFile(t, path, tt.content)

			_, err := config.Load(path, nil)
			assert.Error(t, err)
		})
	}
}

func TestSaveAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := &config.Config{
		Gateway: config.GatewayConfig{
			Endpoint:  "https://api.example.com",
			APIPrefix: "/act5/api/v1",
			Timeout:   10 * time.Second,
		},
		Log:    config.LogConfig{Level: "info", Format: "text"},
		Output: config.OutputConfig{Format: "json"},
		Files:  config.FilesConfig{Dir: "."},
	}

	require.NoError(t, config.Save(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := config.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSave_EmptyPath(t *testing.T) {
	assert.Error(t, config.Save("", &config.Config{}))
}

func TestContext(t *testing.T) {
	_, err := config.FromContext(context.Background())
	assert.Error(t, err)

	cfg := &config.Config{Gateway: config.GatewayConfig{Endpoint: "https://api.example.com"}}
	ctx := config.WithContext(context.Background(), cfg)

	got, err := config.FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestGatewayConfig_ClientConfig(t *testing.T) {
	g := config.GatewayConfig{Endpoint: "https://api.example.com", APIPrefix: "/prod", Timeout: time.Second}

	cc := g.ClientConfig()
	assert.Equal(t, "https://api.example.com", cc.Endpoint)
	assert.Equal(t, "/prod", cc.APIPrefix)
	assert.Equal(t, time.Second, cc.Timeout)
}
