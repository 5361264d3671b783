package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/searchbridge/searchbridge/capability"
)

// Config holds the searchbridge inspector configuration.
type Config struct {
	HTTP      HTTPConfig                `yaml:"http"`
	Auth      AuthConfig                `yaml:"auth"`
	Logging   LoggingConfig             `yaml:"logging"`
	Providers map[string]ProviderConfig `yaml:"providers"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ProviderConfig overrides parts of the default degradation strategy
// for one provider. Empty fields keep the default.
type ProviderConfig struct {
	FacetFallback     string `yaml:"facet_fallback"`
	HighlightFallback string `yaml:"highlight_fallback"`
	StreamFallback    string `yaml:"stream_fallback"`
	VectorFallback    string `yaml:"vector_fallback"`
	GeoFallback       string `yaml:"geo_fallback"`
	LogUnsupported    *bool  `yaml:"log_unsupported"`
	StrictMode        *bool  `yaml:"strict_mode"`
}

// Strategy materializes the override on top of the default strategy.
func (p ProviderConfig) Strategy() capability.Strategy {
	s := capability.DefaultStrategy()
	if p.FacetFallback != "" {
		s.FacetFallback = capability.FacetFallback(p.FacetFallback)
	}
	if p.HighlightFallback != "" {
		s.HighlightFallback = capability.HighlightFallback(p.HighlightFallback)
	}
	if p.StreamFallback != "" {
		s.StreamFallback = capability.StreamFallback(p.StreamFallback)
	}
	if p.VectorFallback != "" {
		s.VectorFallback = capability.VectorFallback(p.VectorFallback)
	}
	if p.GeoFallback != "" {
		s.GeoFallback = capability.GeoFallback(p.GeoFallback)
	}
	if p.LogUnsupported != nil {
		s.LogUnsupported = *p.LogUnsupported
	}
	if p.StrictMode != nil {
		s.StrictMode = *p.StrictMode
	}
	return s
}

// StrategyFor returns the strategy for a provider: the configured
// override when one exists, the default otherwise.
func (c *Config) StrategyFor(provider string) capability.Strategy {
	if override, ok := c.Providers[provider]; ok {
		return override.Strategy()
	}
	return capability.DefaultStrategy()
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	for name, override := range c.Providers {
		if _, err := capability.ForProvider(name); err != nil {
			return fmt.Errorf("providers.%s: %w", name, err)
		}
		if err := override.Strategy().Validate(); err != nil {
			return fmt.Errorf("providers.%s: %w", name, err)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
