package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/danielpatrickdp/rl-optimizer/internal/config"
	"github.com/danielpatrickdp/rl-optimizer/internal/experience"
	"github.com/danielpatrickdp/rl-optimizer/internal/genclient"
	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
	"github.com/danielpatrickdp/rl-optimizer/internal/optimizer"
	"github.com/danielpatrickdp/rl-optimizer/internal/policy"
	"github.com/danielpatrickdp/rl-optimizer/internal/sqlstrategy"
	"github.com/danielpatrickdp/rl-optimizer/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// #region main

func main() {
	configPath := flag.String("config", "", "path to optimizer.yaml (optional)")
	objectivePath := flag.String("objective", "", "path to objective JSON")
	maxIter := flag.Int("max-iter", 0, "override max iterations for this session")
	timeout := flag.Duration("timeout", 2*time.Minute, "session timeout")
	jsonOut := flag.Bool("json", false, "print full result as JSON")
	flag.Parse()

	if *objectivePath == "" {
		fmt.Fprintln(os.Stderr, "usage: optimize --objective path/to/objective.json [--config optimizer.yaml] [--max-iter N] [--json]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	obj, err := loadObjective(*objectivePath)
	if err != nil {
		logger.Fatal("load objective", zap.Error(err))
	}

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		logger.Fatal("open store", zap.String("db", cfg.DBPath), zap.Error(err))
	}
	defer st.Close()

	// Persisted hyperparameters carry the decayed epsilon across sessions;
	// fall back to the configured set on a fresh database.
	hp := cfg.Hyperparams
	entries, savedHP, err := st.LoadQTable()
	if err != nil {
		logger.Fatal("load q-table", zap.Error(err))
	}
	if savedHP != nil {
		hp = *savedHP
	}

	table := policy.NewQTable(hp.MaxQTableSize)
	table.Restore(entries)
	pol := policy.New(table, hp, nil)

	buf := experience.NewBuffer(hp.MaxExperiences)
	items, err := st.LoadExperiences()
	if err != nil {
		logger.Fatal("load experiences", zap.Error(err))
	}
	buf.Restore(items)

	gen, err := genclient.NewClient(cfg.GeneratorAddr)
	if err != nil {
		logger.Fatal("connect generator", zap.String("addr", cfg.GeneratorAddr), zap.Error(err))
	}
	defer gen.Close()

	engine, err := optimizer.NewEngine(optimizer.Config{
		Strategy:  sqlstrategy.New(),
		Policy:    pol,
		Buffer:    buf,
		Store:     st,
		Generator: gen.GeneratorFunc(),
		Evaluator: sqlstrategy.Evaluate,
		Analyzer:  sqlstrategy.Analyze,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("wire engine", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := engine.Run(ctx, optimizer.Request{
		Objective:     obj,
		MaxIterations: *maxIter,
	})
	if err != nil {
		logger.Fatal("run session", zap.Error(err))
	}

	if *jsonOut {
		out, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(out))
		return
	}

	fmt.Printf("session %s: converged=%v iterations=%d reward=%.1f\n",
		res.SessionID, res.Converged, res.Iterations, res.FinalReward.Total)
	fmt.Println(res.Content)
}

// #endregion main

// #region helpers

func loadObjective(path string) (objective.Objective, error) {
	var obj objective.Objective
	data, err := os.ReadFile(path)
	if err != nil {
		return obj, err
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return obj, fmt.Errorf("parse objective: %w", err)
	}
	return obj, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// #endregion helpers
