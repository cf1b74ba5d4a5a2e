package sqlstrategy

// #region imports
import (
	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
	"github.com/danielpatrickdp/rl-optimizer/internal/reward"
)

// #endregion imports

// #region score-weights

const (
	creditTimeframe     = 25.0
	creditEntityMapping = 25.0
	creditRequiredMax   = 40.0

	fastQueryMillis = 500
)

// #endregion score-weights

// #region score

// Score computes the constraint and quality scores for an evaluated
// candidate. The semantic penalty is folded in by the driver.
func (s *Strategy) Score(c objective.Candidate, o objective.Objective, ev objective.Evaluation) reward.Reward {
	return reward.New(constraintScore(c, o, ev), qualityScore(c, ev), 0)
}

// #endregion score

// #region constraint-score

// constraintScore grants the full-pass value on a passing evaluation,
// otherwise partial credit per independently-checkable sub-constraint,
// capped strictly below full pass.
func constraintScore(c objective.Candidate, o objective.Objective, ev objective.Evaluation) float64 {
	if ev.Passed {
		return reward.ConstraintFullPass
	}

	content := c.Content()
	credit := 0.0

	// Timeframe/date filtering present (vacuously satisfied when the
	// objective has no timeframe).
	if o.Scope.Timeframe == "" || containsWord(content, timeframeField(o.Scope.Timeframe)) {
		credit += creditTimeframe
	}

	// Correct entity-to-field mapping.
	if misreferencedEntity(content, o) == "" && mappedFieldsPresent(content, o) {
		credit += creditEntityMapping
	}

	// Fraction of required fields present.
	if n := len(o.Constraints.RequiredFields); n > 0 {
		present := 0
		for _, f := range o.Constraints.RequiredFields {
			if containsWord(content, f) {
				present++
			}
		}
		credit += creditRequiredMax * float64(present) / float64(n)
	} else {
		credit += creditRequiredMax
	}

	if credit > reward.ConstraintPartialCap {
		credit = reward.ConstraintPartialCap
	}
	return credit
}

func mappedFieldsPresent(content string, o objective.Objective) bool {
	for _, entity := range sortedKeys(o.Scope.Entities) {
		if !containsWord(content, o.Scope.Entities[entity]) {
			return false
		}
	}
	return true
}

// #endregion constraint-score

// #region quality-score

// qualityScore sums independent heuristic bonuses and penalties. The caller
// clamps to the documented signed bound.
func qualityScore(c objective.Candidate, ev objective.Evaluation) float64 {
	analysis := Analyze(c)
	score := 0.0

	// Conciseness: shorter candidates score higher, down to a floor of 0.
	switch n := len(c.Content()); {
	case n <= 80:
		score += 8
	case n <= 160:
		score += 5
	case n <= 320:
		score += 2
	}

	// Specificity: "select everything" style candidates are penalized.
	if analysis["select_star"] > 0 {
		score -= 10
	}

	// Structural cost: missing filter, and each join adds a dependency.
	if analysis["has_filter"] == 0 {
		score -= 8
	}
	if joins := analysis["joins"]; joins > 0 {
		penalty := 4 * joins
		if penalty > 12 {
			penalty = 12
		}
		score -= penalty
	}

	// Execution-metric bonuses when the candidate was actually run.
	if m := ev.Metrics; m != nil {
		if m.DurationMillis > 0 && m.DurationMillis <= fastQueryMillis {
			score += 5
		}
		if m.RowCount > 0 {
			score += 5
		}
		if m.ExpectedRows > 0 && m.RowCount == m.ExpectedRows {
			score += 5
		}
	}

	return score
}

// #endregion quality-score
