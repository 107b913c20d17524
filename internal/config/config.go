package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the campusgate API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Search   SearchConfig   `yaml:"search"`
	Database DatabaseConfig `yaml:"database"`
	ConfigDB ConfigDBConfig `yaml:"config_db"`
	LLM      LLMConfig      `yaml:"llm"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the search store (Redis) connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ConfigDBConfig holds the Postgres configuration/log store settings.
type ConfigDBConfig struct {
	DSN string `yaml:"dsn"`
}

// SearchConfig holds retrieval settings for both backends.
type SearchConfig struct {
	KeywordIndex    string             `yaml:"keyword_index"`
	VectorIndex     string             `yaml:"vector_index"`
	RootDomain      string             `yaml:"root_domain"`
	DomainBoosts    map[string]float64 `yaml:"domain_boosts"`
	KeywordMaxHits  int                `yaml:"keyword_max_hits"`
	VectorMaxHits   int                `yaml:"vector_max_hits"`
	MaxKeywords     int                `yaml:"max_keywords"`
	TimeoutSec      int                `yaml:"timeout_sec"`
	StopwordsPath   string             `yaml:"stopwords_path"`
	DomainStopwords []string           `yaml:"domain_stopwords"`
}

// LLMConfig holds embedding and completion provider settings.
type LLMConfig struct {
	Completion CompletionConfig `yaml:"completion"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
}

// CompletionConfig holds LLM completion provider settings.
type CompletionConfig struct {
	Provider   string `yaml:"provider"` // openai, gemini (default: openai)
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
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
		// Answer generation holds the response open for the full LLM round trip.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.KeywordIndex == "" {
		c.Search.KeywordIndex = "campus_pages:idx"
	}
	if c.Search.VectorIndex == "" {
		c.Search.VectorIndex = "campus_knowledge:idx"
	}
	if c.Search.KeywordMaxHits <= 0 {
		// One hit per keyword keeps the keyword section bounded by the
		// number of extracted keywords.
		c.Search.KeywordMaxHits = 1
	}
	if c.Search.VectorMaxHits <= 0 {
		c.Search.VectorMaxHits = 5
	}
	if c.Search.MaxKeywords <= 0 {
		c.Search.MaxKeywords = 3
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 30
	}
	if c.Search.DomainBoosts == nil && c.Search.RootDomain != "" {
		c.Search.DomainBoosts = map[string]float64{
			"life." + c.Search.RootDomain:   0.3,
			"afa." + c.Search.RootDomain:    0.3,
			"news." + c.Search.RootDomain:   -0.3,
			"alumni." + c.Search.RootDomain: 0.1,
		}
	}
	if c.LLM.Completion.Provider == "" {
		c.LLM.Completion.Provider = "openai"
	}
	if c.LLM.Completion.TimeoutSec <= 0 {
		c.LLM.Completion.TimeoutSec = 60
	}
	if c.LLM.Embedding.Model == "" {
		c.LLM.Embedding.Model = "text-embedding-3-small"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Search.RootDomain == "" {
		return fmt.Errorf("search.root_domain is required")
	}
	switch c.LLM.Completion.Provider {
	case "openai", "gemini":
		// ok
	default:
		return fmt.Errorf(
			"llm.completion.provider must be \"openai\" or \"gemini\", got %q",
			c.LLM.Completion.Provider,
		)
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
