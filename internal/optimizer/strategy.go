package optimizer

// #region imports
import (
	"github.com/danielpatrickdp/rl-optimizer/internal/action"
	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
	"github.com/danielpatrickdp/rl-optimizer/internal/reward"
	"github.com/danielpatrickdp/rl-optimizer/internal/state"
)

// #endregion imports

// #region strategy

// Strategy supplies the domain-specific pieces of the loop: state extraction,
// the action space, reward scoring, semantic validation, and the
// deterministic fallback builder. The driver itself is domain-agnostic; the
// SQL strategy in internal/sqlstrategy is one concrete implementation.
type Strategy interface {
	// ExtractState derives the hashable state for a candidate. Must be
	// deterministic and ignore volatile fields.
	ExtractState(c objective.Candidate, o objective.Objective, analysis objective.Analysis, iteration int) state.State

	// ApplicableActions enumerates the legal transformations for the current
	// candidate shape, in enumeration order. UseGenerator is always included.
	ApplicableActions(c objective.Candidate, o objective.Objective, iteration int) []action.Action

	// Apply runs a transformation. Pure and total for every action except
	// those that return RequiresGeneration; a malformed candidate is returned
	// unchanged, never an error.
	Apply(c objective.Candidate, a action.Action, o objective.Objective) action.ApplyResult

	// Score computes constraint and quality scores for an evaluated
	// candidate. The driver folds in the semantic penalty afterwards.
	Score(c objective.Candidate, o objective.Objective, ev objective.Evaluation) reward.Reward

	// ValidateSemantics flags intent/structure mismatches, independent of the
	// hard constraint check.
	ValidateSemantics(c objective.Candidate, o objective.Objective, analysis objective.Analysis) reward.SemanticReport

	// HeuristicCandidate builds a deterministic, always-valid candidate. Used
	// as the fallback when the generator fails.
	HeuristicCandidate(o objective.Objective, previous objective.Candidate, fb *objective.Feedback) objective.Candidate
}

// #endregion strategy
