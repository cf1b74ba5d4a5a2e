package optimizer

// #region imports
import (
	"context"

	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
)

// #endregion imports

// #region generator

// GenerateRequest is the input to the external generator.
type GenerateRequest struct {
	Objective objective.Objective
	Context   map[string]string
	Previous  objective.Candidate // nil on the first call and after Reset
	Feedback  *objective.Feedback // most recent evaluation feedback, if any
}

// GeneratorFunc produces a candidate. Asynchronous, effectful, may fail; on
// failure the driver falls back to the strategy's heuristic builder instead
// of propagating the error.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (objective.Candidate, error)

// #endregion generator

// #region evaluator

// EvaluatorFunc checks a candidate against hard constraints. It must never
// fail; a failed check is expressed through Evaluation.Passed=false.
type EvaluatorFunc func(c objective.Candidate, analysis objective.Analysis, o objective.Objective) objective.Evaluation

// AnalyzerFunc extracts features from a candidate. A nil analyzer or an
// empty result yields an empty feature map, never an error.
type AnalyzerFunc func(c objective.Candidate) objective.Analysis

// #endregion evaluator
