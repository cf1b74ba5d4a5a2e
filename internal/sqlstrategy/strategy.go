package sqlstrategy

// #region imports
import (
	"strings"

	"github.com/danielpatrickdp/rl-optimizer/internal/action"
	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
	"github.com/danielpatrickdp/rl-optimizer/internal/state"
)

// #endregion imports

// #region strategy

// Strategy is the SQL-query concrete strategy for the generic driver: it
// knows how to read the shape of a SQL string, which transformations are
// legal for it, and how to score it against the objective.
type Strategy struct{}

// New returns the SQL strategy.
func New() *Strategy {
	return &Strategy{}
}

// #endregion strategy

// #region extract-state

// ExtractState derives the Q-table state for a SQL candidate. Features are
// discretized so near-identical queries share an entry; the iteration is
// recorded for traces but kept out of the key.
func (s *Strategy) ExtractState(c objective.Candidate, o objective.Objective, analysis objective.Analysis, iteration int) state.State {
	content := c.Content()
	if len(analysis) == 0 {
		analysis = Analyze(c)
	}

	return state.State{
		ObjectiveHash: o.Hash(),
		CandidateHash: c.Hash(),
		Iteration:     iteration,
		Features: map[string]string{
			"empty":  state.Flag(strings.TrimSpace(content) == ""),
			"len":    state.LengthBucket(len(content)),
			"fields": state.CountBucket(int(analysis["fields"])),
			"filter": state.Flag(analysis["has_filter"] > 0),
			"agg":    state.Flag(analysis["has_aggregation"] > 0),
			"req":    state.Flag(requiredSatisfied(content, o)),
			"cost":   state.CountBucket(int(analysis["cost"] / 5)),
		},
	}
}

func requiredSatisfied(content string, o objective.Objective) bool {
	for _, f := range o.Constraints.RequiredFields {
		if !containsWord(content, f) {
			return false
		}
	}
	return true
}

// #endregion extract-state

// #region applicable-actions

// ApplicableActions gates the closed action set on candidate shape, in
// enumeration order. UseGenerator and NoOp are always legal; Reset only
// after the minimum iteration count.
func (s *Strategy) ApplicableActions(c objective.Candidate, o objective.Objective, iteration int) []action.Action {
	content := c.Content()
	analysis := Analyze(c)

	out := []action.Action{action.UseGenerator}

	if missingRequiredField(content, o) != "" {
		out = append(out, action.AddField)
	}
	if removableForbiddenField(content, o) != "" {
		out = append(out, action.RemoveField)
	}
	if analysis["has_filter"] == 0 && (len(o.Scope.Filters) > 0 || o.Scope.Timeframe != "") {
		out = append(out, action.AddFilter)
	}
	if analysis["has_aggregation"] == 0 && wantedAggregation(o.Intent) != "" {
		out = append(out, action.AddAggregation)
	}
	if misreferencedEntity(content, o) != "" {
		out = append(out, action.FixEntityMapping)
	}
	if iteration >= action.MinResetIteration {
		out = append(out, action.Reset)
	}
	return append(out, action.NoOp)
}

// #endregion applicable-actions

// #region apply

// Apply runs one transformation. Pure and total for everything except
// UseGenerator and Reset, which hand control back to the driver's generator.
// A candidate missing the expected structural anchor comes back unchanged.
func (s *Strategy) Apply(c objective.Candidate, a action.Action, o objective.Objective) action.ApplyResult {
	switch a {
	case action.UseGenerator:
		return action.RequiresGeneration(false)
	case action.Reset:
		return action.RequiresGeneration(true)
	case action.AddField:
		return action.Transformed(objective.Text(addField(c.Content(), o)))
	case action.RemoveField:
		return action.Transformed(objective.Text(removeField(c.Content(), o)))
	case action.AddFilter:
		return action.Transformed(objective.Text(addFilter(c.Content(), o)))
	case action.AddAggregation:
		return action.Transformed(objective.Text(addAggregation(c.Content(), o)))
	case action.FixEntityMapping:
		return action.Transformed(objective.Text(fixEntityMapping(c.Content(), o)))
	default: // NoOp and unknown tags
		return action.Transformed(c)
	}
}

// #endregion apply
