package sqlstrategy

// #region imports
import (
	"strings"

	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
)

// #endregion imports

// #region heuristic

// HeuristicCandidate builds a deterministic candidate straight from the
// objective: required and entity-mapped fields, scope filters, timeframe.
// It is the fallback when the external generator fails, so it must satisfy
// the default evaluator for any well-formed objective.
func (s *Strategy) HeuristicCandidate(o objective.Objective, previous objective.Candidate, fb *objective.Feedback) objective.Candidate {
	table := o.Scope.Table
	if table == "" {
		table = "data"
	}

	fields := heuristicFields(o)

	var b strings.Builder
	b.WriteString("SELECT ")
	countOnly := wantedAggregation(o.Intent) == "COUNT" && !wantsAllRecords(o.Intent) &&
		len(fields) == 1 && fields[0] == "*"
	if countOnly {
		// Nothing named to select; the intent asks for a count.
		b.WriteString("COUNT(*)")
	} else {
		b.WriteString(strings.Join(fields, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(table)

	var conds []string
	for _, field := range sortedKeys(o.Scope.Filters) {
		conds = append(conds, field+" = '"+o.Scope.Filters[field]+"'")
	}
	if o.Scope.Timeframe != "" {
		conds = append(conds, o.Scope.Timeframe)
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}

	return objective.Text(b.String())
}

// heuristicFields collects required fields plus entity-mapped fields, in a
// stable order, excluding anything forbidden. Falls back to * when the
// objective names no fields at all.
func heuristicFields(o objective.Objective) []string {
	forbidden := make(map[string]bool, len(o.Constraints.ForbiddenFields))
	for _, f := range o.Constraints.ForbiddenFields {
		forbidden[strings.ToLower(f)] = true
	}

	seen := make(map[string]bool)
	var fields []string
	add := func(f string) {
		key := strings.ToLower(f)
		if f == "" || seen[key] || forbidden[key] {
			return
		}
		seen[key] = true
		fields = append(fields, f)
	}

	for _, f := range o.Constraints.RequiredFields {
		add(f)
	}
	for _, entity := range sortedKeys(o.Scope.Entities) {
		add(o.Scope.Entities[entity])
	}

	if len(fields) == 0 {
		return []string{"*"}
	}
	return fields
}

// #endregion heuristic
