package objective

// #region imports
import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// #endregion imports

// #region objective-hash

// Hash returns a stable FNV-1a hash over the objective's semantic fields.
// The ID is excluded so two sessions for the same goal share Q-table state.
func (o Objective) Hash() string {
	var b strings.Builder
	b.WriteString(o.Intent)
	b.WriteByte('|')
	b.WriteString(o.Scope.Table)
	b.WriteByte('|')
	writeSortedMap(&b, o.Scope.Filters)
	b.WriteByte('|')
	b.WriteString(o.Scope.Timeframe)
	b.WriteByte('|')
	writeSortedMap(&b, o.Scope.Entities)
	b.WriteByte('|')
	writeSortedSlice(&b, o.Constraints.RequiredFields)
	b.WriteByte('|')
	writeSortedSlice(&b, o.Constraints.ForbiddenFields)
	return hashString(b.String())
}

// #endregion objective-hash

// #region helpers

func hashString(s string) string {
	h := fnv.New64a()
	h.Write([]byte(s))
	return fmt.Sprintf("%016x", h.Sum64())
}

func writeSortedMap(b *strings.Builder, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m[k])
		b.WriteByte(';')
	}
}

func writeSortedSlice(b *strings.Builder, vals []string) {
	sorted := make([]string, len(vals))
	copy(sorted, vals)
	sort.Strings(sorted)
	for _, v := range sorted {
		b.WriteString(v)
		b.WriteByte(';')
	}
}

// #endregion helpers
