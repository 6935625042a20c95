// Package config loads insurely settings from .insurely.yaml, .env files
// and INSURELY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAPIURL is the backend used when none is configured.
const DefaultAPIURL = "http://localhost:5000/api"

// Config is the complete insurely configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Web     WebConfig     `mapstructure:"web"`
	State   StateConfig   `mapstructure:"state"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
	// Token, when set, replaces the stored session token.
	Token string `mapstructure:"token" json:"-"`
}

// APIConfig locates the backend.
type APIConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WebConfig locates the browser frontend.
type WebConfig struct {
	URL string `mapstructure:"url"`
}

// StateConfig says where session files live.
type StateConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// Load reads configuration. cfgFile, when non-empty, names the config file
// explicitly; otherwise .insurely.yaml is searched for in the working
// directory and $HOME/.config/insurely. A .env file in the working
// directory is loaded into the environment first.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".insurely")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/insurely")
	}

	v.SetEnvPrefix("INSURELY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.API.URL = strings.TrimRight(cfg.API.URL, "/")
	if cfg.Web.URL == "" {
		cfg.Web.URL = webURLFor(cfg.API.URL)
	}
	if cfg.State.Dir == "" {
		dir, err := defaultStateDir()
		if err != nil {
			return nil, err
		}
		cfg.State.Dir = dir
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// FileUsed returns the config file Load would read, or "".
func FileUsed(cfgFile string) string {
	if cfgFile != "" {
		return cfgFile
	}
	v := viper.New()
	v.SetConfigName(".insurely")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/insurely")
	if err := v.ReadInConfig(); err != nil {
		return ""
	}
	return v.ConfigFileUsed()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("web.url", "")
	v.SetDefault("state.dir", "")
	v.SetDefault("token", "")

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")

	v.SetDefault("output.colors", true)
}

func defaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".insurely"), nil
}

// webURLFor derives the frontend origin from the API URL by dropping a
// trailing /api path.
func webURLFor(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil {
		return apiURL
	}
	u.Path = strings.TrimSuffix(strings.TrimRight(u.Path, "/"), "/api")
	return strings.TrimRight(u.String(), "/")
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api url: %q", cfg.API.URL)
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("invalid api timeout: %s", cfg.API.Timeout)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}
	return nil
}
