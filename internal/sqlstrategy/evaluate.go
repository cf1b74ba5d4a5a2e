package sqlstrategy

// #region imports
import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
)

// #endregion imports

// #region feedback-codes

// Feedback codes emitted by the default evaluator.
const (
	CodeEmptyCandidate       = "EMPTY_CANDIDATE"
	CodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	CodeForbiddenField       = "FORBIDDEN_FIELD"
	CodeMissingFilterField   = "MISSING_FILTER_FIELD"
	CodeMissingTimeframe     = "MISSING_TIMEFRAME"
	CodeBadEntityMapping     = "BAD_ENTITY_MAPPING"
)

// #endregion feedback-codes

// #region evaluate

// Evaluate is the default constraint checker for SQL candidates: pure string
// analysis, never errors, first failed sub-constraint wins. Usable directly
// as the driver's evaluator callback.
func Evaluate(c objective.Candidate, analysis objective.Analysis, o objective.Objective) objective.Evaluation {
	content := c.Content()

	if strings.TrimSpace(content) == "" {
		return failed(CodeEmptyCandidate, "candidate is empty", "generate a query for the objective")
	}

	for _, f := range o.Constraints.RequiredFields {
		if !containsWord(content, f) {
			return failed(CodeMissingRequiredField,
				fmt.Sprintf("required field %q is not referenced", f),
				fmt.Sprintf("add %s to the select list", f))
		}
	}

	for _, f := range o.Constraints.ForbiddenFields {
		if containsWord(content, f) {
			return failed(CodeForbiddenField,
				fmt.Sprintf("forbidden field %q is referenced", f),
				fmt.Sprintf("remove %s from the query", f))
		}
	}

	for _, field := range sortedKeys(o.Scope.Filters) {
		value := o.Scope.Filters[field]
		if !containsWord(content, field) || !strings.Contains(strings.ToLower(content), strings.ToLower(value)) {
			return failed(CodeMissingFilterField,
				fmt.Sprintf("filter on %q = %q is missing", field, value),
				fmt.Sprintf("add WHERE %s = '%s'", field, value))
		}
	}

	if o.Scope.Timeframe != "" {
		if field := timeframeField(o.Scope.Timeframe); field != "" && !containsWord(content, field) {
			return failed(CodeMissingTimeframe,
				fmt.Sprintf("timeframe filter on %q is missing", field),
				fmt.Sprintf("add the condition %s", o.Scope.Timeframe))
		}
	}

	for _, entity := range sortedKeys(o.Scope.Entities) {
		field := o.Scope.Entities[entity]
		if containsWord(content, entity) || !containsWord(content, field) {
			return failed(CodeBadEntityMapping,
				fmt.Sprintf("entity %q must be addressed through field %q", entity, field),
				fmt.Sprintf("replace %s with %s", entity, field))
		}
	}

	return objective.Evaluation{Passed: true}
}

func failed(code, message, fix string) objective.Evaluation {
	return objective.Evaluation{
		Passed:   false,
		Feedback: &objective.Feedback{Code: code, Message: message, Fix: fix},
	}
}

// timeframeField extracts the leading identifier of a timeframe expression,
// e.g. "order_date" from "order_date >= '2026-01-01'".
func timeframeField(expr string) string {
	expr = strings.TrimSpace(expr)
	for i := 0; i < len(expr); i++ {
		if !isIdentRune(expr[i]) {
			return expr[:i]
		}
	}
	return expr
}

// #endregion evaluate
