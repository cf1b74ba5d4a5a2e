package policy

// #region imports
import (
	"sync"

	"github.com/danielpatrickdp/rl-optimizer/internal/action"
)

// #endregion imports

// #region seeds

// useGeneratorSeed biases unseen states toward the external generator so
// early sessions explore fresh candidates instead of shuffling a bad one.
const useGeneratorSeed = 1.0

// #endregion seeds

// #region qtable

// QTable maps StateKey → Action → learned value estimate. Bounded to a
// maximum number of state entries; the oldest-inserted state is evicted when
// the bound is exceeded (insertion order, not access order). Safe for
// concurrent sessions.
type QTable struct {
	mu      sync.RWMutex
	entries map[string]map[action.Action]float64
	order   []string // state keys in insertion order
	maxSize int
}

// NewQTable creates an empty Q-table holding at most maxSize state entries.
func NewQTable(maxSize int) *QTable {
	return &QTable{
		entries: make(map[string]map[action.Action]float64),
		maxSize: maxSize,
	}
}

// #endregion qtable

// #region get

// Get returns the learned value for (stateKey, a), or the seeded initial
// value for unseen pairs: +1 for UseGenerator, 0 otherwise. Reading never
// inserts an entry.
func (t *QTable) Get(stateKey string, a action.Action) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.getLocked(stateKey, a)
}

func (t *QTable) getLocked(stateKey string, a action.Action) float64 {
	if vals, ok := t.entries[stateKey]; ok {
		if v, ok := vals[a]; ok {
			return v
		}
	}
	if a == action.UseGenerator {
		return useGeneratorSeed
	}
	return 0
}

// #endregion get

// #region update

// Update applies the Bellman rule
//
//	Q(s,a) ← Q(s,a) + alpha·(reward + gamma·max_{a'} Q(s',a') − Q(s,a))
//
// with the max taken over nextActions, the current iteration's applicable set
// reused as an approximation of the next state's set. Returns the new value.
// This is the only mutation path into the table.
func (t *QTable) Update(stateKey string, a action.Action, reward float64, nextStateKey string, nextActions []action.Action, alpha, gamma float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	maxNext := 0.0
	for i, na := range nextActions {
		q := t.getLocked(nextStateKey, na)
		if i == 0 || q > maxNext {
			maxNext = q
		}
	}

	cur := t.getLocked(stateKey, a)
	next := cur + alpha*(reward+gamma*maxNext-cur)
	t.setLocked(stateKey, a, next)
	return next
}

func (t *QTable) setLocked(stateKey string, a action.Action, v float64) {
	vals, ok := t.entries[stateKey]
	if !ok {
		vals = make(map[action.Action]float64)
		t.entries[stateKey] = vals
		t.order = append(t.order, stateKey)
		t.evictLocked()
	}
	vals[a] = v
}

func (t *QTable) evictLocked() {
	for t.maxSize > 0 && len(t.entries) > t.maxSize {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.entries, oldest)
	}
}

// #endregion update

// #region snapshot

// StateEntry is one state's row set in a Q-table snapshot, in insertion order.
type StateEntry struct {
	Key    string
	Values map[action.Action]float64
}

// Len returns the number of state entries.
func (t *QTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Snapshot exports every entry in insertion order for persistence.
func (t *QTable) Snapshot() []StateEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]StateEntry, 0, len(t.order))
	for _, key := range t.order {
		vals := make(map[action.Action]float64, len(t.entries[key]))
		for a, v := range t.entries[key] {
			vals[a] = v
		}
		out = append(out, StateEntry{Key: key, Values: vals})
	}
	return out
}

// Restore replaces the table contents with a previously exported snapshot,
// preserving insertion order for eviction.
func (t *QTable) Restore(entries []StateEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]map[action.Action]float64, len(entries))
	t.order = make([]string, 0, len(entries))
	for _, e := range entries {
		vals := make(map[action.Action]float64, len(e.Values))
		for a, v := range e.Values {
			vals[a] = v
		}
		t.entries[e.Key] = vals
		t.order = append(t.order, e.Key)
	}
	t.evictLocked()
}

// #endregion snapshot
