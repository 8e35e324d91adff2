package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/pantopia/console/internal/pantopia"
	"github.com/pantopia/console/internal/processing"
)

// Config holds everything the console needs to reach the API and store its
// local state.
type Config struct {
	APIURL          string        `koanf:"api_url"`
	LoginURL        string        `koanf:"login_url"`
	Token           string        `koanf:"token"`
	DataDir         string        `koanf:"data_dir"`
	LogDir          string        `koanf:"log_dir"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	Verbose         bool          `koanf:"verbose"`
	Processing      Processing    `koanf:"processing"`

	// File is the config file that was read, empty when defaults were used.
	File string `koanf:"-"`
}

// Processing tunes the data source status poller.
type Processing struct {
	PollInterval time.Duration `koanf:"poll_interval"`
	MaxFailures  int           `koanf:"max_failures"`
	MaxBackoff   time.Duration `koanf:"max_backoff"`
}

const (
	defaultConfigDir       = "~/.config/pantopia"
	defaultDataDir         = "~/.local/share/pantopia"
	defaultLogDir          = "~/.local/share/pantopia/logs"
	defaultRequestTimeout  = 10 * time.Second
	defaultRefreshInterval = 5 * time.Second

	envPrefix = "PANTOPIA_"
)

// flagKeys maps CLI flag names to config keys. Flags not listed here are
// command options and never reach the config.
var flagKeys = map[string]string{
	"api-url":          "api_url",
	"login-url":        "login_url",
	"token":            "token",
	"data-dir":         "data_dir",
	"log-dir":          "log_dir",
	"request-timeout":  "request_timeout",
	"refresh-interval": "refresh_interval",
	"verbose":          "verbose",
	"poll-interval":    "processing.poll_interval",
	"max-failures":     "processing.max_failures",
}

func defaults() map[string]any {
	return map[string]any{
		"api_url":                  pantopia.DefaultAPIURL,
		"login_url":                "",
		"token":                    "",
		"data_dir":                 defaultDataDir,
		"log_dir":                  defaultLogDir,
		"request_timeout":          defaultRequestTimeout,
		"refresh_interval":         defaultRefreshInterval,
		"verbose":                  false,
		"processing.poll_interval": processing.DefaultPollInterval,
		"processing.max_failures":  processing.DefaultMaxFailures,
		"processing.max_backoff":   processing.DefaultMaxBackoff,
	}
}

// Load layers defaults, the config file, PANTOPIA_* environment variables and
// explicitly set flags, in that order. A missing file is not an error. flags
// may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}
	if resolved != "" {
		if err := k.Load(file.Provider(resolved), parserFor(resolved)); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	// PANTOPIA_PROCESSING__POLL_INTERVAL -> processing.poll_interval
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = resolved
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.APIURL = strings.TrimSpace(c.APIURL)
	if c.APIURL == "" {
		c.APIURL = pantopia.DefaultAPIURL
	}
	c.LoginURL = strings.TrimSpace(c.LoginURL)
	c.Token = strings.TrimSpace(c.Token)

	c.DataDir = strings.TrimSpace(c.DataDir)
	if c.DataDir == "" {
		c.DataDir = defaultDataDir
	}
	c.DataDir = mustExpand(c.DataDir)

	c.LogDir = strings.TrimSpace(c.LogDir)
	if c.LogDir == "" {
		c.LogDir = defaultLogDir
	}
	c.LogDir = mustExpand(c.LogDir)

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = defaultRefreshInterval
	}
}

// SessionPath is the bolt file holding the token and last path.
func (c Config) SessionPath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir + "/session.db")
	}
	return filepath.Join(c.DataDir, "session.db")
}

// LogPath is the console's own log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/pantopia.log")
	}
	return filepath.Join(c.LogDir, "pantopia.log")
}

// PollerConfig converts the processing section for the status poller.
func (c Config) PollerConfig() processing.Config {
	return processing.Config{
		PollInterval: c.Processing.PollInterval,
		MaxFailures:  c.Processing.MaxFailures,
		MaxBackoff:   c.Processing.MaxBackoff,
	}
}

// DefaultDir is where config.toml and prefs.toml live.
func DefaultDir() string {
	return mustExpand(defaultConfigDir)
}

// resolvePath returns the file to read, or "" when the default location has
// no config file. An explicit path that does not exist also yields "".
func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", err
		}
		return existing(expanded)
	}
	dir, err := expandPath(defaultConfigDir)
	if err != nil {
		return "", err
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		found, err := existing(filepath.Join(dir, name))
		if err != nil || found != "" {
			return found, err
		}
	}
	return "", nil
}

func existing(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("open config: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("open config: %s is a directory", path)
	}
	return path, nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return tomlParser{}
	}
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
