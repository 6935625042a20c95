package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with no INSURELY_* env.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, k := range []string{"INSURELY_API_URL", "INSURELY_TOKEN", "INSURELY_LOGGING_LEVEL", "INSURELY_STATE_DIR", "INSURELY_WEB_URL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "http://localhost:5000", cfg.Web.URL)
	assert.Equal(t, filepath.Join(home, ".insurely"), cfg.State.Dir)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Output.Colors)
	assert.Empty(t, cfg.Token)
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	content := `api:
  url: https://insure.example.com/api/
  timeout: 5s
logging:
  level: debug
output:
  colors: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://insure.example.com/api", cfg.API.URL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "https://insure.example.com", cfg.Web.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Output.Colors)
	assert.Equal(t, path, FileUsed(path))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".insurely.yaml"), []byte("api:\n  url: http://file:1/api\n"), 0o600))
	t.Setenv("INSURELY_API_URL", "http://env:2/api")
	t.Setenv("INSURELY_TOKEN", "tok-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://env:2/api", cfg.API.URL)
	assert.Equal(t, "tok-env", cfg.Token)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("INSURELY_STATE_DIR=/tmp/insurely-state\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("INSURELY_STATE_DIR") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/insurely-state", cfg.State.Dir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad url", "api:\n  url: not-a-url\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"bad format", "logging:\n  format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
