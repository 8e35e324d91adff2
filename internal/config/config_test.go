package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantopia/console/internal/pantopia"
	"github.com/pantopia/console/internal/processing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"), nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != pantopia.DefaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, pantopia.DefaultAPIURL)
	}
	if cfg.File != "" {
		t.Fatalf("File = %q, want empty", cfg.File)
	}

	wantDataDir, err := expandPath(defaultDataDir)
	if err != nil {
		t.Fatalf("expandPath(defaultDataDir) returned error: %v", err)
	}
	if cfg.DataDir != wantDataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, wantDataDir)
	}
	if cfg.SessionPath() != filepath.Join(wantDataDir, "session.db") {
		t.Fatalf("SessionPath = %q", cfg.SessionPath())
	}
	if cfg.PollerConfig() != processing.DefaultConfig() {
		t.Fatalf("PollerConfig = %+v, want defaults", cfg.PollerConfig())
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
}

func TestLoad_DefaultLocationPrefersTOML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "pantopia")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_url: http://yaml.example/api/v1\n"), 0o600))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://yaml.example/api/v1", cfg.APIURL)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`api_url = "http://toml.example/api/v1"`), 0o600))
	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://toml.example/api/v1", cfg.APIURL)
	assert.Equal(t, filepath.Join(dir, "config.toml"), cfg.File)
}

func TestLoad_ParsesAndTrimsTOML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeFile(t, "config.toml", `
api_url = "  https://crm.example.com/api/v1  "
token = "  secret  "
data_dir = "  ~/.pantopia  "
request_timeout = "4s"

[processing]
poll_interval = "1s"
max_failures = 7
max_backoff = "12s"
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://crm.example.com/api/v1", cfg.APIURL)
	assert.Equal(t, "secret", cfg.Token)
	assert.True(t, strings.HasPrefix(cfg.DataDir, home), "DataDir %q not under HOME", cfg.DataDir)
	assert.Equal(t, 4*time.Second, cfg.RequestTimeout)
	assert.Equal(t, processing.Config{PollInterval: time.Second, MaxFailures: 7, MaxBackoff: 12 * time.Second}, cfg.PollerConfig())
	assert.Equal(t, path, cfg.File)
}

func TestLoad_ParsesYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeFile(t, "config.yaml", `
api_url: http://10.0.0.5:8000/api/v1
processing:
  poll_interval: 2s
  max_failures: 2
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8000/api/v1", cfg.APIURL)
	assert.Equal(t, 2*time.Second, cfg.Processing.PollInterval)
	assert.Equal(t, 2, cfg.Processing.MaxFailures)
	assert.Equal(t, processing.DefaultMaxBackoff, cfg.Processing.MaxBackoff)
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeFile(t, "config.toml", `
api_url = "   "
log_dir = ""
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, pantopia.DefaultAPIURL, cfg.APIURL)

	wantLogDir, err := expandPath(defaultLogDir)
	require.NoError(t, err)
	assert.Equal(t, wantLogDir, cfg.LogDir)
	assert.Equal(t, filepath.Join(wantLogDir, "pantopia.log"), cfg.LogPath())
}

func TestLoad_EnvOverridesFileAndFlagsOverrideEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PANTOPIA_API_URL", "http://env.example/api/v1")
	t.Setenv("PANTOPIA_TOKEN", "from-env")
	t.Setenv("PANTOPIA_PROCESSING__MAX_FAILURES", "9")

	path := writeFile(t, "config.toml", `
api_url = "http://file.example/api/v1"
token = "from-file"
`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-url", "", "")
	flags.String("token", "", "")
	flags.Duration("poll-interval", 0, "")
	flags.Bool("resolve", false, "")
	require.NoError(t, flags.Parse([]string{"--token", "from-flag", "--poll-interval", "750ms", "--resolve"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/api/v1", cfg.APIURL, "unset flags must not clobber env")
	assert.Equal(t, "from-flag", cfg.Token)
	assert.Equal(t, 9, cfg.Processing.MaxFailures)
	assert.Equal(t, 750*time.Millisecond, cfg.Processing.PollInterval)
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := writeFile(t, "config.toml", `api_url = [`)
	_, err := Load(path, nil)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/pantopia.log")) {
		t.Fatalf("LogPath = %q, want it to end with /pantopia.log", got)
	}
}
