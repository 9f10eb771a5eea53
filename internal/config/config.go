// Package config builds the process configuration once at startup. The
// resulting Config is passed explicitly to every command and handler.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"cookcart/internal/shopping"
	"cookcart/internal/units"
)

const (
	// AppName names the per-user config directory.
	AppName = "cook"
	// LocalConfigDir is looked up under the recipe base path.
	LocalConfigDir = "config"
	// AisleFileName is the aisle mapping file name.
	AisleFileName = "aisle.conf"
	// UnitsFileName is the unit table file name.
	UnitsFileName = "units.toml"
	// EnvPrefix prefixes every environment variable, e.g. COOK_BASE_PATH.
	EnvPrefix = "COOK"
)

// Config represents the application configuration.
type Config struct {
	BasePath        string        `mapstructure:"base_path"`
	Addr            string        `mapstructure:"addr"`
	AislePath       string        `mapstructure:"aisle_path"`
	UnitsPath       string        `mapstructure:"units_path"`
	DatabaseURL     string        `mapstructure:"database_url"`
	GeminiAPIKey    string        `mapstructure:"gemini_api_key"`
	GeminiModel     string        `mapstructure:"gemini_model"`
	LocalLLMURL     string        `mapstructure:"local_llm_url"`
	LocalLLMModel   string        `mapstructure:"local_llm_model"`
	AllowOrigins    []string      `mapstructure:"allow_origins"`
	LoadConcurrency int           `mapstructure:"load_concurrency"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	Environment     string        `mapstructure:"environment"`
	LogLevel        string        `mapstructure:"log_level"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		BasePath:        ".",
		Addr:            ":9080",
		GeminiModel:     "gemini-1.5-flash",
		LocalLLMModel:   "gemma-3-12b-it",
		AllowOrigins:    []string{"http://localhost:5173"},
		LoadConcurrency: 8,
		RequestTimeout:  30 * time.Second,
		Environment:     "local",
		LogLevel:        "info",
	}
}

// flagKeys maps config keys to the command line flags that override them.
var flagKeys = map[string]string{
	"base_path":  "base-path",
	"addr":       "addr",
	"aisle_path": "aisle",
	"units_path": "units",
	"log_level":  "log-level",
}

// Load reads configuration from, in increasing priority: defaults, the config
// file (configFile, or config.json in the working directory if present), the
// environment (a .env file is loaded first), and flags that were set.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	def := Default()
	v.SetDefault("base_path", def.BasePath)
	v.SetDefault("addr", def.Addr)
	v.SetDefault("aisle_path", def.AislePath)
	v.SetDefault("units_path", def.UnitsPath)
	v.SetDefault("database_url", def.DatabaseURL)
	v.SetDefault("gemini_api_key", def.GeminiAPIKey)
	v.SetDefault("gemini_model", def.GeminiModel)
	v.SetDefault("local_llm_url", def.LocalLLMURL)
	v.SetDefault("local_llm_model", def.LocalLLMModel)
	v.SetDefault("allow_origins", def.AllowOrigins)
	v.SetDefault("load_concurrency", def.LoadConcurrency)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("environment", def.Environment)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// Unprefixed names kept for existing deployments.
	_ = v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("gemini_api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("environment", EnvPrefix+"_ENVIRONMENT", "ENVIRONMENT")
	_ = v.BindEnv("log_level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config.json: %w", err)
			}
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	abs, err := filepath.Abs(c.BasePath)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("base path is not a directory: %s", abs)
	}
	c.BasePath = abs
	if c.LoadConcurrency <= 0 {
		c.LoadConcurrency = Default().LoadConcurrency
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = Default().RequestTimeout
	}
	return nil
}

// AisleFile returns the aisle mapping to use: the configured path, else
// <base>/config/aisle.conf, else aisle.conf in the user config directory.
// It returns "" when none exists.
func (c *Config) AisleFile() string {
	return c.lookup(c.AislePath, AisleFileName)
}

// UnitsFile returns the unit table file to use, or "" for the built-in table.
func (c *Config) UnitsFile() string {
	return c.lookup(c.UnitsPath, UnitsFileName)
}

func (c *Config) lookup(explicit, name string) string {
	if explicit != "" {
		return explicit
	}
	local := filepath.Join(c.BasePath, LocalConfigDir, name)
	if isFile(local) {
		return local
	}
	if dir, err := os.UserConfigDir(); err == nil {
		global := filepath.Join(dir, AppName, name)
		if isFile(global) {
			return global
		}
	}
	return ""
}

// Units loads the unit conversion table once for this process.
func (c *Config) Units() (*units.Table, error) {
	path := c.UnitsFile()
	if path == "" {
		return units.Default(), nil
	}
	return units.Load(path)
}

// AisleMapping loads the aisle file. With no file it returns an empty
// mapping. When the file cannot be used it returns an empty mapping together
// with an error wrapping shopping.ErrMappingUnavailable, so callers can warn
// and carry on.
func (c *Config) AisleMapping() (*shopping.AisleMapping, error) {
	path := c.AisleFile()
	if path == "" {
		return shopping.NewAisleMapping(), nil
	}
	m, err := shopping.LoadAisle(path)
	if err != nil {
		return shopping.NewAisleMapping(), err
	}
	return m, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
