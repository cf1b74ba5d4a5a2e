package optimizer

// #region imports
import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/rl-optimizer/internal/experience"
	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
	"github.com/danielpatrickdp/rl-optimizer/internal/policy"
	"github.com/danielpatrickdp/rl-optimizer/internal/reward"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// #endregion imports

// #region engine

// Engine drives optimization sessions: generate → extract state → select
// action → apply/generate → evaluate → reward → Bellman update → record
// experience → check convergence. One engine may serve concurrent sessions;
// the Q-table and buffer carry their own locks.
type Engine struct {
	strategy Strategy
	policy   *policy.Policy
	buffer   *experience.Buffer
	store    Store // nil = in-memory only
	generate GeneratorFunc
	evaluate EvaluatorFunc
	analyze  AnalyzerFunc
	logger   *zap.Logger
}

// Config wires an engine. Strategy, Policy, Buffer, Generator, and Evaluator
// are required; Store, Analyzer, and Logger are optional.
type Config struct {
	Strategy  Strategy
	Policy    *policy.Policy
	Buffer    *experience.Buffer
	Store     Store
	Generator GeneratorFunc
	Evaluator EvaluatorFunc
	Analyzer  AnalyzerFunc
	Logger    *zap.Logger
}

// NewEngine validates the wiring and returns an engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Strategy == nil {
		return nil, fmt.Errorf("optimizer: strategy is required")
	}
	if cfg.Policy == nil {
		return nil, fmt.Errorf("optimizer: policy is required")
	}
	if cfg.Buffer == nil {
		return nil, fmt.Errorf("optimizer: experience buffer is required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("optimizer: generator callback is required")
	}
	if cfg.Evaluator == nil {
		return nil, fmt.Errorf("optimizer: evaluator callback is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		strategy: cfg.Strategy,
		policy:   cfg.Policy,
		buffer:   cfg.Buffer,
		store:    cfg.Store,
		generate: cfg.Generator,
		evaluate: cfg.Evaluator,
		analyze:  cfg.Analyzer,
		logger:   logger,
	}, nil
}

// #endregion engine

// #region run

// Run executes one optimization session. The only error it returns is a
// malformed objective, surfaced before any iteration runs; generator
// failures fall back to the heuristic builder and persistence failures are
// logged, never propagated. Exhaustion without convergence is a normal
// result with Converged=false.
func (e *Engine) Run(ctx context.Context, req Request) (Result, error) {
	if err := objective.Validate(req.Objective); err != nil {
		return Result{}, err
	}

	obj := req.Objective
	objHash := obj.Hash()
	sessionID := uuid.New().String()
	hp := e.policy.Hyperparams()

	maxIter := req.MaxIterations
	if maxIter <= 0 {
		maxIter = obj.Constraints.MaxIterations
	}
	if maxIter <= 0 {
		maxIter = hp.MaxIterations
	}
	threshold := obj.Constraints.ConvergenceThreshold
	if threshold <= 0 {
		threshold = hp.ConvergenceThreshold
	}

	cand := e.produce(ctx, req, nil, nil)
	best := cand
	var bestReward reward.Reward
	haveBest := false

	var lastFeedback *objective.Feedback
	var log []IterationRecord
	converged := false
	iterations := 0

	for i := 1; i <= maxIter; i++ {
		iterations = i

		analysis := e.safeAnalyze(cand)
		st := e.strategy.ExtractState(cand, obj, analysis, i)
		stateKey := st.Key()
		applicable := e.strategy.ApplicableActions(cand, obj, i)
		act := e.policy.SelectAction(stateKey, applicable)

		next := cand
		generated := false
		res := e.strategy.Apply(cand, act, obj)
		if res.RequiresGeneration {
			prev := cand
			if res.FromScratch {
				prev = nil
			}
			next = e.produce(ctx, req, prev, lastFeedback)
			generated = true
		} else if res.Candidate != nil {
			next = res.Candidate
		}

		nextAnalysis := e.safeAnalyze(next)
		ev := e.safeEvaluate(next, nextAnalysis, obj)
		rep := e.strategy.ValidateSemantics(next, obj, nextAnalysis)
		base := e.strategy.Score(next, obj, ev)
		rew := reward.New(base.Constraint, base.Quality, len(rep.Issues))

		nextKey := e.strategy.ExtractState(next, obj, nextAnalysis, i+1).Key()
		isConverged := reward.Converged(ev, rep, rew, threshold)

		e.policy.UpdateQ(stateKey, act, rew.Total, nextKey, applicable)
		e.buffer.Add(experience.Experience{
			StateKey:      stateKey,
			Action:        act,
			Reward:        rew.Total,
			NextStateKey:  nextKey,
			Terminal:      isConverged,
			ObjectiveHash: objHash,
			Applicable:    applicable,
		})

		rec := IterationRecord{
			Iteration:      i,
			Action:         act,
			StateKeyPrefix: keyPrefix(stateKey),
			Generated:      generated,
			Passed:         ev.Passed,
			SemanticsMatch: rep.Match,
			Reward:         rew,
			Converged:      isConverged,
		}
		if ev.Feedback != nil {
			rec.FeedbackCode = ev.Feedback.Code
		}
		for _, issue := range rep.Issues {
			rec.SemanticIssues = append(rec.SemanticIssues, issue.Code)
		}
		log = append(log, rec)

		e.logger.Debug("iteration complete",
			zap.String("session", sessionID),
			zap.Int("iteration", i),
			zap.String("action", string(act)),
			zap.Bool("passed", ev.Passed),
			zap.Float64("reward", rew.Total),
			zap.Bool("converged", isConverged))

		if !haveBest || rew.Total > bestReward.Total {
			best = next
			bestReward = rew
			haveBest = true
		}

		lastFeedback = nil
		if ev.Feedback != nil && !ev.Passed {
			lastFeedback = ev.Feedback
		}

		// Always advance the working candidate so the recorded transition
		// matches the candidate actually carried forward.
		cand = next

		if isConverged {
			converged = true
			break
		}
	}

	e.persist(sessionID, log)
	e.policy.DecayEpsilon()

	return Result{
		SessionID:   sessionID,
		Candidate:   best,
		CandidateID: best.Hash(),
		Content:     best.Content(),
		Iterations:  iterations,
		FinalReward: bestReward,
		Converged:   converged,
		Log:         log,
	}, nil
}

// #endregion run

// #region produce

// produce calls the external generator, falling back to the strategy's
// deterministic heuristic builder on error.
func (e *Engine) produce(ctx context.Context, req Request, prev objective.Candidate, fb *objective.Feedback) objective.Candidate {
	cand, err := e.generate(ctx, GenerateRequest{
		Objective: req.Objective,
		Context:   req.Context,
		Previous:  prev,
		Feedback:  fb,
	})
	if err != nil || cand == nil {
		e.logger.Warn("generator failed, using heuristic candidate", zap.Error(err))
		return e.strategy.HeuristicCandidate(req.Objective, prev, fb)
	}
	return cand
}

// #endregion produce

// #region safe-callbacks

// safeAnalyze honors the contract that a failed analysis yields an empty
// feature map rather than an error.
func (e *Engine) safeAnalyze(c objective.Candidate) (analysis objective.Analysis) {
	analysis = objective.Analysis{}
	if e.analyze == nil {
		return analysis
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("analyzer panicked", zap.Any("panic", r))
			analysis = objective.Analysis{}
		}
	}()
	if m := e.analyze(c); m != nil {
		analysis = m
	}
	return analysis
}

// safeEvaluate converts an evaluator panic into a failed evaluation.
func (e *Engine) safeEvaluate(c objective.Candidate, analysis objective.Analysis, o objective.Objective) (ev objective.Evaluation) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("evaluator panicked", zap.Any("panic", r))
			ev = objective.Evaluation{Passed: false, Feedback: &objective.Feedback{
				Code:    "EVALUATOR_PANIC",
				Message: fmt.Sprintf("evaluator panicked: %v", r),
			}}
		}
	}()
	return e.evaluate(c, analysis, o)
}

// #endregion safe-callbacks

// #region persist

// persist writes both snapshots and the session trace. Failures are logged
// and never block the result.
func (e *Engine) persist(sessionID string, log []IterationRecord) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveQTable(e.policy.Table().Snapshot(), e.policy.Hyperparams()); err != nil {
		e.logger.Warn("q-table save failed", zap.String("session", sessionID), zap.Error(err))
	}
	if err := e.store.SaveExperiences(e.buffer.All()); err != nil {
		e.logger.Warn("experience save failed", zap.String("session", sessionID), zap.Error(err))
	}
	if err := e.store.LogSession(sessionID, log); err != nil {
		e.logger.Warn("session log write failed", zap.String("session", sessionID), zap.Error(err))
	}
}

func keyPrefix(key string) string {
	if len(key) > 24 {
		return key[:24]
	}
	return key
}

// #endregion persist
