package experience

// #region imports
import (
	"math/rand"
	"sync"
	"time"

	"github.com/danielpatrickdp/rl-optimizer/internal/action"
	"github.com/google/uuid"
)

// #endregion imports

// #region experience

// Experience is one recorded (state, action, reward, next state) transition.
// Applicable is the action set the policy chose from at record time; offline
// replay needs it to reproduce the Bellman next-state max exactly.
type Experience struct {
	ID            string          `json:"id"`
	StateKey      string          `json:"state_key"`
	Action        action.Action   `json:"action"`
	Reward        float64         `json:"reward"`
	NextStateKey  string          `json:"next_state_key"`
	Terminal      bool            `json:"terminal"`
	Timestamp     time.Time       `json:"timestamp"`
	ObjectiveHash string          `json:"objective_hash"`
	Applicable    []action.Action `json:"applicable,omitempty"`
}

// #endregion experience

// #region buffer

// Buffer is a fixed-capacity FIFO queue of transitions. When full, the
// oldest item is evicted first. Safe for concurrent sessions.
type Buffer struct {
	mu       sync.Mutex
	items    []Experience
	capacity int
}

// NewBuffer creates a buffer holding at most capacity transitions.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{capacity: capacity}
}

// Add appends a transition, filling in ID and timestamp when absent, and
// evicts the oldest items past capacity.
func (b *Buffer) Add(e Experience) Experience {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, e)
	if b.capacity > 0 && len(b.items) > b.capacity {
		b.items = b.items[len(b.items)-b.capacity:]
	}
	return e
}

// Len returns the number of buffered transitions.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// All returns a copy of the buffer contents in insertion order.
func (b *Buffer) All() []Experience {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Experience, len(b.items))
	copy(out, b.items)
	return out
}

// Restore replaces the buffer contents, trimming to capacity from the front.
func (b *Buffer) Restore(items []Experience) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.capacity > 0 && len(items) > b.capacity {
		items = items[len(items)-b.capacity:]
	}
	b.items = make([]Experience, len(items))
	copy(b.items, items)
}

// #endregion buffer

// #region queries

// Recent returns the newest n transitions in insertion order.
func (b *Buffer) Recent(n int) []Experience {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > len(b.items) {
		n = len(b.items)
	}
	out := make([]Experience, n)
	copy(out, b.items[len(b.items)-n:])
	return out
}

// ByObjective returns all transitions recorded for the given objective hash.
func (b *Buffer) ByObjective(objectiveHash string) []Experience {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Experience
	for _, e := range b.items {
		if e.ObjectiveHash == objectiveHash {
			out = append(out, e)
		}
	}
	return out
}

// HighReward returns all transitions with reward >= minReward.
func (b *Buffer) HighReward(minReward float64) []Experience {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Experience
	for _, e := range b.items {
		if e.Reward >= minReward {
			out = append(out, e)
		}
	}
	return out
}

// SampleBatch returns n transitions drawn uniformly without replacement.
// rng may be nil for a time-seeded source. Returns fewer than n when the
// buffer is smaller.
func (b *Buffer) SampleBatch(n int, rng *rand.Rand) []Experience {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if n > len(b.items) {
		n = len(b.items)
	}
	perm := rng.Perm(len(b.items))
	out := make([]Experience, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, b.items[idx])
	}
	return out
}

// #endregion queries

// #region stats

// AverageReward returns the mean reward across the buffer, 0 when empty.
func (b *Buffer) AverageReward() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		return 0
	}
	var sum float64
	for _, e := range b.items {
		sum += e.Reward
	}
	return sum / float64(len(b.items))
}

// SuccessRate returns the fraction of transitions marked terminal, 0 when
// empty.
func (b *Buffer) SuccessRate() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		return 0
	}
	terminal := 0
	for _, e := range b.items {
		if e.Terminal {
			terminal++
		}
	}
	return float64(terminal) / float64(len(b.items))
}

// #endregion stats
