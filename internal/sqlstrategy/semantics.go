package sqlstrategy

// #region imports
import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
	"github.com/danielpatrickdp/rl-optimizer/internal/reward"
)

// #endregion imports

// #region all-records-patterns

var allRecordsPatterns = []string{
	"all records", "every record", "each record",
	"all rows", "every row", "list all", "show all",
}

func wantsAllRecords(intent string) bool {
	lower := strings.ToLower(intent)
	for _, p := range allRecordsPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// #endregion all-records-patterns

// #region validate-semantics

// ValidateSemantics flags intent/structure mismatches independently of the
// hard constraint check. Each issue later costs a fixed penalty on the total
// reward.
func (s *Strategy) ValidateSemantics(c objective.Candidate, o objective.Objective, analysis objective.Analysis) reward.SemanticReport {
	content := c.Content()
	if len(analysis) == 0 {
		analysis = Analyze(c)
	}

	var issues []reward.SemanticIssue

	// Objective asks for raw records but the candidate aggregates.
	if wantsAllRecords(o.Intent) && analysis["has_aggregation"] > 0 {
		issues = append(issues, reward.SemanticIssue{
			Code:   reward.IssueUnwantedAggregation,
			Detail: "intent asks for all records but the candidate aggregates",
		})
	}

	// Objective excludes a field the candidate still references directly.
	for _, f := range o.Constraints.ForbiddenFields {
		if containsWord(content, f) {
			issues = append(issues, reward.SemanticIssue{
				Code:   reward.IssueExcludedReference,
				Detail: fmt.Sprintf("excluded field %q is still referenced", f),
			})
		}
	}

	// A named filter value does not appear anywhere in the candidate.
	lower := strings.ToLower(content)
	for _, field := range sortedKeys(o.Scope.Filters) {
		value := o.Scope.Filters[field]
		if !strings.Contains(lower, strings.ToLower(value)) {
			issues = append(issues, reward.SemanticIssue{
				Code:   reward.IssueMissingFilterValue,
				Detail: fmt.Sprintf("filter value %q does not appear in the candidate", value),
			})
		}
	}

	return reward.SemanticReport{Match: len(issues) == 0, Issues: issues}
}

// #endregion validate-semantics
