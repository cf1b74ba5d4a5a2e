package state

// #region imports
import (
	"sort"
	"strings"
)

// #endregion imports

// #region state

// State is the derived, hashable representation of a (candidate, objective)
// pair. It is never stored on its own; only Key() feeds the Q-table.
type State struct {
	ObjectiveHash string
	CandidateHash string
	Features      map[string]string // state-defining features, all iteration-invariant
	Iteration     int               // recorded for traces, excluded from Key()
}

// #endregion state

// #region key

// Key combines both hashes with the sorted feature set into a single string.
// Deterministic: identical hashes and features always yield identical keys.
func (s State) Key() string {
	keys := make([]string, 0, len(s.Features))
	for k := range s.Features {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(s.ObjectiveHash)
	b.WriteByte(':')
	b.WriteString(s.CandidateHash)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(s.Features[k])
	}
	return b.String()
}

// #endregion key
