package sqlstrategy

// #region imports
import (
	"sort"
	"strings"

	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
)

// #endregion imports

// #region intent-patterns

var countIntents = []string{"how many", "count", "number of"}
var sumIntents = []string{"total", "sum of", "sum "}
var avgIntents = []string{"average", "avg", "mean"}

// wantedAggregation maps intent wording to the aggregation function it asks
// for. Empty when the intent does not ask for one.
func wantedAggregation(intent string) string {
	lower := strings.ToLower(intent)
	for _, p := range countIntents {
		if strings.Contains(lower, p) {
			return "COUNT"
		}
	}
	for _, p := range sumIntents {
		if strings.Contains(lower, p) {
			return "SUM"
		}
	}
	for _, p := range avgIntents {
		if strings.Contains(lower, p) {
			return "AVG"
		}
	}
	return ""
}

// #endregion intent-patterns

// #region gating-probes

// missingRequiredField returns the first required field absent from the
// candidate, or "".
func missingRequiredField(content string, o objective.Objective) string {
	if _, _, _, ok := selectList(content); !ok {
		return ""
	}
	for _, f := range o.Constraints.RequiredFields {
		if !containsWord(content, f) {
			return f
		}
	}
	return ""
}

// removableForbiddenField returns the first forbidden field present in the
// select list, or "".
func removableForbiddenField(content string, o objective.Objective) string {
	list, _, _, ok := selectList(content)
	if !ok {
		return ""
	}
	for _, f := range o.Constraints.ForbiddenFields {
		if containsWord(list, f) {
			return f
		}
	}
	return ""
}

// misreferencedEntity returns the first entity literal referenced as a bare
// identifier instead of through its mapped field, or "".
func misreferencedEntity(content string, o objective.Objective) string {
	for _, entity := range sortedKeys(o.Scope.Entities) {
		if containsWord(content, entity) {
			return entity
		}
	}
	return ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// #endregion gating-probes

// #region add-field

func addField(content string, o objective.Objective) string {
	field := missingRequiredField(content, o)
	if field == "" {
		return content
	}
	list, _, end, ok := selectList(content)
	if !ok {
		return content
	}
	if strings.TrimSpace(list) == "*" {
		return content
	}
	return strings.TrimRight(content[:end], " ") + ", " + field + " " + strings.TrimLeft(content[end:], " ")
}

// #endregion add-field

// #region remove-field

func removeField(content string, o objective.Objective) string {
	field := removableForbiddenField(content, o)
	if field == "" {
		return content
	}
	list, start, end, ok := selectList(content)
	if !ok {
		return content
	}
	items := splitFields(list)
	kept := make([]string, 0, len(items))
	removed := false
	for _, item := range items {
		if !removed && containsWord(item, field) {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed || len(kept) == 0 {
		return content
	}
	return content[:start] + " " + strings.Join(kept, ", ") + " " + strings.TrimLeft(content[end:], " ")
}

// #endregion remove-field

// #region add-filter

func addFilter(content string, o objective.Objective) string {
	upper := strings.ToUpper(content)
	if strings.Contains(upper, " WHERE ") {
		return content
	}
	if !strings.Contains(upper, " FROM ") {
		return content
	}

	var conds []string
	for _, field := range sortedKeys(o.Scope.Filters) {
		conds = append(conds, field+" = '"+o.Scope.Filters[field]+"'")
	}
	if o.Scope.Timeframe != "" {
		conds = append(conds, o.Scope.Timeframe)
	}
	if len(conds) == 0 {
		return content
	}
	clause := "WHERE " + strings.Join(conds, " AND ")

	// Insert before GROUP BY / ORDER BY / LIMIT when present, else append.
	insertAt := len(content)
	for _, kw := range []string{" GROUP BY", " ORDER BY", " LIMIT"} {
		if idx := strings.Index(upper, kw); idx >= 0 && idx < insertAt {
			insertAt = idx
		}
	}
	head := strings.TrimRight(content[:insertAt], " ;")
	tail := content[insertAt:]
	if tail == "" {
		return head + " " + clause
	}
	return head + " " + clause + tail
}

// #endregion add-filter

// #region add-aggregation

func addAggregation(content string, o objective.Objective) string {
	fn := wantedAggregation(o.Intent)
	if fn == "" {
		return content
	}
	list, start, end, ok := selectList(content)
	if !ok {
		return content
	}

	var expr string
	switch fn {
	case "COUNT":
		expr = "COUNT(*)"
	default:
		// SUM/AVG need a concrete column; prefer the first required field,
		// else the first selected field.
		field := ""
		if len(o.Constraints.RequiredFields) > 0 {
			field = o.Constraints.RequiredFields[0]
		} else if items := splitFields(list); len(items) > 0 && items[0] != "*" {
			field = items[0]
		}
		if field == "" {
			return content
		}
		expr = fn + "(" + field + ")"
	}
	return content[:start] + " " + expr + " " + strings.TrimLeft(content[end:], " ")
}

// #endregion add-aggregation

// #region fix-entity-mapping

func fixEntityMapping(content string, o objective.Objective) string {
	out := content
	for _, entity := range sortedKeys(o.Scope.Entities) {
		if containsWord(out, entity) {
			out = replaceWord(out, entity, o.Scope.Entities[entity])
		}
	}
	return out
}

// #endregion fix-entity-mapping
