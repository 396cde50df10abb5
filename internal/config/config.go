package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Analysis
	DefaultModel    string `mapstructure:"default_model" yaml:"default_model"`
	ForestTrees     int    `mapstructure:"forest_trees" yaml:"forest_trees"`
	RandomSeed      int64  `mapstructure:"random_seed" yaml:"random_seed"`
	ForecastHorizon int    `mapstructure:"forecast_horizon" yaml:"forecast_horizon"`
	MaxRows         int    `mapstructure:"max_rows" yaml:"max_rows"`
	OutputFormat    string `mapstructure:"output_format" yaml:"output_format"`

	// HTTP service
	ServerAddr      string `mapstructure:"server_addr" yaml:"server_addr"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin"`
}

var defaults = map[string]any{
	"log_level":         "info",
	"log_format":        "console",
	"default_model":     "linear",
	"forest_trees":      100,
	"random_seed":       42,
	"forecast_horizon":  10,
	"max_rows":          100000,
	"output_format":     "markdown",
	"server_addr":       ":5000",
	"max_upload_mb":     16,
	"read_timeout_sec":  15,
	"write_timeout_sec": 60,
	"cors_origin":       "*",
}

// Keys lists every configuration key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultPath returns ~/.insight/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".insight", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.insight/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("INSIGHT")
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set assigns a single key from its string form.
func (c *Global) Set(key, value string) error {
	value = strings.TrimSpace(value)
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s: expected integer, got %q", key, value)
		}
		return n, nil
	}
	switch key {
	case "log_level":
		c.LogLevel = value
	case "log_format":
		if value != "console" && value != "json" {
			return fmt.Errorf("log_format: expected console or json, got %q", value)
		}
		c.LogFormat = value
	case "default_model":
		if value != "linear" && value != "forest" {
			return fmt.Errorf("default_model: expected linear or forest, got %q", value)
		}
		c.DefaultModel = value
	case "forest_trees":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.ForestTrees = n
	case "random_seed":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: expected integer, got %q", key, value)
		}
		c.RandomSeed = n
	case "forecast_horizon":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.ForecastHorizon = n
	case "max_rows":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.MaxRows = n
	case "output_format":
		c.OutputFormat = value
	case "server_addr":
		c.ServerAddr = value
	case "max_upload_mb":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.MaxUploadMB = n
	case "read_timeout_sec":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.ReadTimeoutSec = n
	case "write_timeout_sec":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.WriteTimeoutSec = n
	case "cors_origin":
		c.CORSOrigin = value
	default:
		return fmt.Errorf("unknown key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}
