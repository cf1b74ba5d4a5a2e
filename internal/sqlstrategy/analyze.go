package sqlstrategy

// #region imports
import (
	"strings"

	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
)

// #endregion imports

// #region aggregation-patterns

var aggregationFuncs = []string{"COUNT(", "SUM(", "AVG(", "MIN(", "MAX("}

// #endregion aggregation-patterns

// #region analyze

// Analyze extracts shape features from a SQL candidate via string analysis.
// No parser, no model call. Boolean features are encoded as 0/1. Usable
// directly as the driver's analyzer callback.
func Analyze(c objective.Candidate) objective.Analysis {
	sql := c.Content()
	upper := strings.ToUpper(sql)

	list, _, _, hasList := selectList(sql)
	star := hasList && strings.TrimSpace(list) == "*"
	fields := 0
	if hasList && !star {
		fields = len(splitFields(list))
	}

	hasFilter := strings.Contains(upper, " WHERE ")
	agg := false
	for _, fn := range aggregationFuncs {
		if strings.Contains(upper, fn) {
			agg = true
			break
		}
	}
	joins := strings.Count(upper, " JOIN ")

	cost := float64(joins) * 10
	if star {
		cost += 5
	}
	if !hasFilter {
		cost += 3
	}

	return objective.Analysis{
		"length":          float64(len(sql)),
		"fields":          float64(fields),
		"has_filter":      flag(hasFilter),
		"has_aggregation": flag(agg),
		"has_group_by":    flag(strings.Contains(upper, " GROUP BY ")),
		"joins":           float64(joins),
		"select_star":     flag(star),
		"cost":            cost,
	}
}

func flag(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// #endregion analyze

// #region select-list

// selectList locates the text between the first SELECT and its FROM.
// Returns the list plus its byte offsets, or ok=false when either anchor is
// missing.
func selectList(sql string) (list string, start, end int, ok bool) {
	upper := strings.ToUpper(sql)
	sel := strings.Index(upper, "SELECT")
	if sel < 0 {
		return "", 0, 0, false
	}
	start = sel + len("SELECT")
	from := strings.Index(upper[start:], " FROM ")
	if from < 0 {
		return "", 0, 0, false
	}
	end = start + from
	return sql[start:end], start, end, true
}

func splitFields(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// #endregion select-list

// #region word-helpers

func isIdentRune(r byte) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// containsWord reports whether word appears in s as a bare identifier
// (case-insensitive, outside single-quoted literals).
func containsWord(s, word string) bool {
	return indexWord(s, word, 0) >= 0
}

// indexWord finds the next bare-identifier occurrence of word at or after
// offset, skipping single-quoted literals. Returns -1 when absent.
func indexWord(s, word string, offset int) int {
	if word == "" {
		return -1
	}
	lower := strings.ToLower(s)
	lowWord := strings.ToLower(word)
	inQuote := false
	// Quote state is tracked from the start of the string so a mid-string
	// offset cannot misread a literal as bare SQL.
	for i := 0; i+len(lowWord) <= len(lower); i++ {
		if lower[i] == '\'' {
			inQuote = !inQuote
			continue
		}
		if inQuote || i < offset {
			continue
		}
		if lower[i:i+len(lowWord)] != lowWord {
			continue
		}
		if i > 0 && isIdentRune(lower[i-1]) {
			continue
		}
		after := i + len(lowWord)
		if after < len(lower) && isIdentRune(lower[after]) {
			continue
		}
		return i
	}
	return -1
}

// replaceWord rewrites every bare-identifier occurrence of old with new,
// leaving quoted literals untouched.
func replaceWord(s, old, new string) string {
	var b strings.Builder
	pos := 0
	for {
		idx := indexWord(s, old, pos)
		if idx < 0 {
			b.WriteString(s[pos:])
			return b.String()
		}
		b.WriteString(s[pos:idx])
		b.WriteString(new)
		pos = idx + len(old)
	}
}

// #endregion word-helpers
