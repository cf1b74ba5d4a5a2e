package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	def := Default()
	if cfg.DBPath != def.DBPath || cfg.GeneratorAddr != def.GeneratorAddr || cfg.LogLevel != def.LogLevel {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.Hyperparams != def.Hyperparams {
		t.Fatalf("expected default hyperparams, got %+v", cfg.Hyperparams)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimizer.yaml")
	content := `db_path: /tmp/custom.db
generator_addr: gen:9090
log_level: debug
hyperparams:
  alpha: 0.2
  gamma: 0.8
  epsilon: 0.5
  epsilon_decay: 0.9
  epsilon_min: 0.01
  max_qtable_size: 100
  max_experiences: 200
  max_iterations: 5
  convergence_threshold: 80
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" || cfg.GeneratorAddr != "gen:9090" || cfg.LogLevel != "debug" {
		t.Fatalf("top-level fields not parsed: %+v", cfg)
	}
	if cfg.Hyperparams.Alpha != 0.2 || cfg.Hyperparams.MaxQTableSize != 100 {
		t.Fatalf("hyperparams not parsed: %+v", cfg.Hyperparams)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("db_path: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed YAML should error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPTIMIZER_DB", "/env/override.db")
	t.Setenv("OPTIMIZER_GENERATOR_ADDR", "env:1234")
	t.Setenv("OPTIMIZER_LOG_LEVEL", "warn")
	t.Setenv("OPTIMIZER_EPSILON", "0.42")
	t.Setenv("OPTIMIZER_MAX_ITERATIONS", "7")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/env/override.db" || cfg.GeneratorAddr != "env:1234" || cfg.LogLevel != "warn" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Hyperparams.Epsilon != 0.42 || cfg.Hyperparams.MaxIterations != 7 {
		t.Fatalf("hyperparam overrides not applied: %+v", cfg.Hyperparams)
	}
}

func TestEnvOverridesIgnoreGarbage(t *testing.T) {
	t.Setenv("OPTIMIZER_EPSILON", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Hyperparams.Epsilon != Default().Hyperparams.Epsilon {
		t.Fatalf("unparseable override should be ignored, got %v", cfg.Hyperparams.Epsilon)
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "optimizer.yaml")
	if err := os.WriteFile(path, []byte("db_path: /file.db\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("OPTIMIZER_DB", "/env.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/env.db" {
		t.Fatalf("env should override file, got %s", cfg.DBPath)
	}
}
