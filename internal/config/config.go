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

// Config holds the kindred pipeline and viewer configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Feedback FeedbackConfig `yaml:"feedback"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// PipelineConfig holds input/output locations and ranking depth.
type PipelineConfig struct {
	DataDir   string `yaml:"data_dir"`
	OutputDir string `yaml:"output_dir"`
	TopN      int    `yaml:"top_n"`
}

// ScoringConfig holds the additive boost weights.
// The 0.10/0.05/0.03 values are heuristic defaults, not algorithmic truths.
type ScoringConfig struct {
	Boosts BoostConfig `yaml:"boosts"`
}

// BoostConfig holds per-rule boost weights.
type BoostConfig struct {
	City     float64 `yaml:"city"`
	Category float64 `yaml:"category"`
	Tag      float64 `yaml:"tag"`
}

// FeedbackConfig holds the synthetic feedback simulation settings.
type FeedbackConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Seed          int64   `yaml:"seed"`
	PositiveRatio float64 `yaml:"positive_ratio"`
	NegativeRatio float64 `yaml:"negative_ratio"`
	LikeWeight    float64 `yaml:"like_weight"`
	DislikeWeight float64 `yaml:"dislike_weight"`
}

// HTTPConfig holds viewer HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
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

// Default returns a configuration with every field at its default value.
func Default() Config {
	var cfg Config
	cfg.Feedback.Enabled = true
	cfg.ApplyDefaults()
	return cfg
}

// Save writes the configuration as YAML, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return fmt.Errorf("empty config path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values. Numeric zeros count
// as unset, so a zero ratio or weight cannot be expressed in YAML; turn the
// simulation off with feedback.enabled instead.
func (c *Config) ApplyDefaults() {
	if c.Pipeline.DataDir == "" {
		c.Pipeline.DataDir = "data"
	}
	if c.Pipeline.OutputDir == "" {
		c.Pipeline.OutputDir = "output"
	}
	if c.Pipeline.TopN <= 0 {
		c.Pipeline.TopN = 10
	}
	if c.Scoring.Boosts.City == 0 {
		c.Scoring.Boosts.City = 0.10
	}
	if c.Scoring.Boosts.Category == 0 {
		c.Scoring.Boosts.Category = 0.05
	}
	if c.Scoring.Boosts.Tag == 0 {
		c.Scoring.Boosts.Tag = 0.03
	}
	if c.Feedback.Seed == 0 {
		c.Feedback.Seed = 42
	}
	if c.Feedback.PositiveRatio == 0 {
		c.Feedback.PositiveRatio = 0.03
	}
	if c.Feedback.NegativeRatio == 0 {
		c.Feedback.NegativeRatio = 0.01
	}
	if c.Feedback.LikeWeight == 0 {
		c.Feedback.LikeWeight = 0.20
	}
	if c.Feedback.DislikeWeight == 0 {
		c.Feedback.DislikeWeight = -0.25
	}
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
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
	if c.Pipeline.TopN < 1 {
		return fmt.Errorf("pipeline.top_n must be >= 1, got %d", c.Pipeline.TopN)
	}
	if c.Scoring.Boosts.City < 0 || c.Scoring.Boosts.Category < 0 || c.Scoring.Boosts.Tag < 0 {
		return fmt.Errorf("scoring.boosts weights must be non-negative")
	}
	if c.Feedback.PositiveRatio < 0 || c.Feedback.PositiveRatio > 1 {
		return fmt.Errorf("feedback.positive_ratio must be in [0,1], got %g", c.Feedback.PositiveRatio)
	}
	if c.Feedback.NegativeRatio < 0 || c.Feedback.NegativeRatio > 1 {
		return fmt.Errorf("feedback.negative_ratio must be in [0,1], got %g", c.Feedback.NegativeRatio)
	}
	if c.Feedback.PositiveRatio+c.Feedback.NegativeRatio > 1 {
		return fmt.Errorf("feedback.positive_ratio + feedback.negative_ratio must not exceed 1")
	}
	if c.Feedback.LikeWeight < 0 {
		return fmt.Errorf("feedback.like_weight must be non-negative, got %g", c.Feedback.LikeWeight)
	}
	if c.Feedback.DislikeWeight > 0 {
		return fmt.Errorf("feedback.dislike_weight must be non-positive, got %g", c.Feedback.DislikeWeight)
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
