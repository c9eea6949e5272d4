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

// Config holds the topiclens pipeline configuration.
type Config struct {
	Stream     StreamConfig     `yaml:"stream"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Chat       ChatConfig       `yaml:"chat"`
	Clustering ClusteringConfig `yaml:"clustering"`
	Cache      CacheConfig      `yaml:"cache"`
	Output     OutputConfig     `yaml:"output"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// StreamConfig holds firehose subscription settings.
type StreamConfig struct {
	URL         string `yaml:"url"`
	Collection  string `yaml:"collection"`
	TargetCount int    `yaml:"target_count"`
	Language    string `yaml:"language"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	BatchSize  int    `yaml:"batch_size"`
	Workers    int    `yaml:"workers"`
}

// ChatConfig holds summarization model settings.
type ChatConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// ClusteringConfig holds DBSCAN parameters.
type ClusteringConfig struct {
	Radius    float64 `yaml:"radius"`
	MinPoints int     `yaml:"min_points"`
}

// CacheConfig holds the optional embedding cache settings.
// The cache is disabled when addrs is empty.
type CacheConfig struct {
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	KeyPrefix string   `yaml:"key_prefix"`
	TTLHours  int      `yaml:"ttl_hours"`
}

// OutputConfig holds output file settings.
type OutputConfig struct {
	Path  string `yaml:"path"`
	Title string `yaml:"title"`
}

// MetricsConfig holds the Prometheus endpoint settings. Port 0 disables it.
type MetricsConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
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
	if c.Stream.URL == "" {
		c.Stream.URL = "wss://jetstream2.us-east.bsky.network/subscribe"
	}
	if c.Stream.Collection == "" {
		c.Stream.Collection = "app.bsky.feed.post"
	}
	if c.Stream.TargetCount == 0 {
		c.Stream.TargetCount = 10000
	}
	if c.Stream.Language == "" {
		c.Stream.Language = "en"
	}
	if c.Embedding.BatchSize <= 0 {
		c.Embedding.BatchSize = 250
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 128
	}
	if c.Embedding.Workers <= 0 {
		c.Embedding.Workers = 4
	}
	if c.Chat.MaxTokens <= 0 {
		c.Chat.MaxTokens = 25
	}
	if c.Clustering.Radius <= 0 {
		c.Clustering.Radius = 0.2
	}
	if c.Clustering.MinPoints <= 0 {
		c.Clustering.MinPoints = 10
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "topiclens:"
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = 24
	}
	if c.Output.Path == "" {
		c.Output.Path = "static/newdata.js"
	}
	if c.Output.Title == "" {
		c.Output.Title = "Bluesky topic clusters"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Stream.URL, "ws://") && !strings.HasPrefix(c.Stream.URL, "wss://") {
		return fmt.Errorf("stream.url must be a ws:// or wss:// URL, got %q", c.Stream.URL)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Chat.Model == "" {
		return fmt.Errorf("chat.model is required")
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0 and 65535, got %d", c.Metrics.Port)
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
