package config

// #region imports
import (
	"fmt"
	"os"
	"strconv"

	"github.com/danielpatrickdp/rl-optimizer/internal/policy"
	"gopkg.in/yaml.v3"
)

// #endregion imports

// #region config

// Config bundles process-level settings: store location, the external
// generation service, and the learning hyperparameters. Loaded once per
// process.
type Config struct {
	DBPath        string             `yaml:"db_path"`
	GeneratorAddr string             `yaml:"generator_addr"`
	LogLevel      string             `yaml:"log_level"`
	Hyperparams   policy.Hyperparams `yaml:"hyperparams"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		DBPath:        "optimizer.db",
		GeneratorAddr: "localhost:50051",
		LogLevel:      "info",
		Hyperparams:   policy.Default(),
	}
}

// #endregion config

// #region load

// Load reads a YAML config file and applies OPTIMIZER_* env overrides.
// A missing file yields the defaults, not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OPTIMIZER_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("OPTIMIZER_GENERATOR_ADDR"); v != "" {
		c.GeneratorAddr = v
	}
	if v := os.Getenv("OPTIMIZER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("OPTIMIZER_EPSILON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Hyperparams.Epsilon = f
		}
	}
	if v := os.Getenv("OPTIMIZER_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Hyperparams.MaxIterations = n
		}
	}
}

// #endregion load
