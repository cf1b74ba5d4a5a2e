package reward

// #region imports
import "github.com/danielpatrickdp/rl-optimizer/internal/objective"

// #endregion imports

// #region bounds

const (
	// ConstraintFullPass is the constraint score for a passing evaluation.
	ConstraintFullPass = 100.0
	// ConstraintPartialCap caps partial credit strictly below a full pass so
	// a partially-correct candidate can never look converged.
	ConstraintPartialCap = 90.0
	// QualityBound is the signed bound on the quality score.
	QualityBound = 30.0
	// SemanticIssuePenalty is subtracted from the total per semantic issue.
	SemanticIssuePenalty = 15.0
)

// #endregion bounds

// #region reward

// Reward is the scored outcome of one iteration.
// Total = Constraint + Quality − SemanticPenalty.
type Reward struct {
	Constraint      float64 `json:"constraint"`
	Quality         float64 `json:"quality"`
	SemanticPenalty float64 `json:"semantic_penalty"`
	Total           float64 `json:"total"`
}

// New clamps the component scores to their documented bounds and composes
// the total. issues is the semantic issue count.
func New(constraint, quality float64, issues int) Reward {
	constraint = clamp(constraint, 0, ConstraintFullPass)
	quality = clamp(quality, -QualityBound, QualityBound)
	penalty := SemanticIssuePenalty * float64(issues)
	return Reward{
		Constraint:      constraint,
		Quality:         quality,
		SemanticPenalty: penalty,
		Total:           constraint + quality - penalty,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// #endregion reward

// #region semantics

// Semantic issue codes flagged by ValidateSemantics implementations.
const (
	IssueExcludedReference   = "EXCLUDED_REFERENCE"
	IssueUnwantedAggregation = "UNWANTED_AGGREGATION"
	IssueMissingFilterValue  = "MISSING_FILTER_VALUE"
)

// SemanticIssue is one intent/structure mismatch.
type SemanticIssue struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// SemanticReport is the outcome of semantic validation, independent of the
// hard constraint check.
type SemanticReport struct {
	Match  bool            `json:"match"`
	Issues []SemanticIssue `json:"issues,omitempty"`
}

// #endregion semantics

// #region convergence

// Converged reports whether the session may stop successfully: constraints
// pass, semantics match, and the total reward clears the threshold.
func Converged(ev objective.Evaluation, rep SemanticReport, r Reward, threshold float64) bool {
	return ev.Passed && rep.Match && r.Total >= threshold
}

// #endregion convergence
