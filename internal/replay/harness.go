package replay

// #region imports
import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/danielpatrickdp/rl-optimizer/internal/experience"
	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
	"github.com/danielpatrickdp/rl-optimizer/internal/optimizer"
	"github.com/danielpatrickdp/rl-optimizer/internal/policy"
	"github.com/danielpatrickdp/rl-optimizer/internal/sqlstrategy"
)

// #endregion imports

// #region harness

// Run replays a fixture through the full driver deterministically: scripted
// generator outputs, exploitation-only policy (epsilon forced to 0), and a
// fixed rand seed. Operates entirely in-memory.
func Run(ctx context.Context, f *Fixture) (optimizer.Result, error) {
	hp := policy.Default()
	if f.Hyperparams != nil {
		hp = *f.Hyperparams
	}
	hp.Epsilon = 0
	hp.EpsilonMin = 0

	pol := policy.New(policy.NewQTable(hp.MaxQTableSize), hp, rand.NewSource(1))
	buf := experience.NewBuffer(hp.MaxExperiences)
	strat := sqlstrategy.New()

	calls := 0
	generate := func(ctx context.Context, req optimizer.GenerateRequest) (objective.Candidate, error) {
		if calls >= len(f.Generated) {
			return nil, fmt.Errorf("fixture generator exhausted after %d calls", calls)
		}
		out := f.Generated[calls]
		calls++
		return objective.Text(out), nil
	}

	engine, err := optimizer.NewEngine(optimizer.Config{
		Strategy:  strat,
		Policy:    pol,
		Buffer:    buf,
		Generator: generate,
		Evaluator: sqlstrategy.Evaluate,
		Analyzer:  sqlstrategy.Analyze,
	})
	if err != nil {
		return optimizer.Result{}, err
	}

	return engine.Run(ctx, optimizer.Request{Objective: f.Objective})
}

// #endregion harness

// #region check

// Check compares a replay result against the fixture's expectations and
// returns one message per mismatch.
func Check(f *Fixture, res optimizer.Result) []string {
	if f.Expected == nil {
		return nil
	}
	var problems []string
	exp := f.Expected

	if res.Converged != exp.Converged {
		problems = append(problems, fmt.Sprintf("converged = %v, want %v", res.Converged, exp.Converged))
	}
	if exp.MaxIterations > 0 && res.Iterations > exp.MaxIterations {
		problems = append(problems, fmt.Sprintf("took %d iterations, want <= %d", res.Iterations, exp.MaxIterations))
	}
	for _, want := range exp.FinalContains {
		if !strings.Contains(res.Content, want) {
			problems = append(problems, fmt.Sprintf("final candidate missing %q", want))
		}
	}
	if len(exp.Actions) > 0 {
		got := make([]string, len(res.Log))
		for i, rec := range res.Log {
			got[i] = string(rec.Action)
		}
		if strings.Join(got, ",") != strings.Join(exp.Actions, ",") {
			problems = append(problems, fmt.Sprintf("action sequence %v, want %v", got, exp.Actions))
		}
	}
	return problems
}

// #endregion check
