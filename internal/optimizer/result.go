package optimizer

// #region imports
import (
	"github.com/danielpatrickdp/rl-optimizer/internal/action"
	"github.com/danielpatrickdp/rl-optimizer/internal/experience"
	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
	"github.com/danielpatrickdp/rl-optimizer/internal/policy"
	"github.com/danielpatrickdp/rl-optimizer/internal/reward"
)

// #endregion imports

// #region request

// Request is one optimization session's input.
type Request struct {
	Objective     objective.Objective
	Context       map[string]string
	MaxIterations int // 0 = use hyperparameter/objective default
}

// #endregion request

// #region iteration-record

// IterationRecord is one row of the session trace.
type IterationRecord struct {
	Iteration      int           `json:"iteration"`
	Action         action.Action `json:"action"`
	StateKeyPrefix string        `json:"state_key_prefix"`
	Generated      bool          `json:"generated"` // candidate came from the generator
	Passed         bool          `json:"passed"`
	FeedbackCode   string        `json:"feedback_code,omitempty"`
	SemanticsMatch bool          `json:"semantics_match"`
	SemanticIssues []string      `json:"semantic_issues,omitempty"`
	Reward         reward.Reward `json:"reward"`
	Converged      bool          `json:"converged"`
}

// #endregion iteration-record

// #region result

// Result is the session output. Candidate is the best-reward candidate seen
// across the session; Converged=false after exhaustion is a normal outcome,
// not an error.
type Result struct {
	SessionID   string              `json:"session_id"`
	Candidate   objective.Candidate `json:"-"`
	CandidateID string              `json:"candidate_hash"`
	Content     string              `json:"content"`
	Iterations  int                 `json:"iterations"`
	FinalReward reward.Reward       `json:"final_reward"`
	Converged   bool                `json:"converged"`
	Log         []IterationRecord   `json:"log"`
}

// #endregion result

// #region store

// Store persists session state. Implementations are free to fail;
// persistence errors are logged and never block a result.
type Store interface {
	SaveQTable(entries []policy.StateEntry, hp policy.Hyperparams) error
	SaveExperiences(items []experience.Experience) error
	LogSession(sessionID string, records []IterationRecord) error
}

// #endregion store
