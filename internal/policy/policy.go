package policy

// #region imports
import (
	"math/rand"
	"sync"

	"github.com/danielpatrickdp/rl-optimizer/internal/action"
)

// #endregion imports

// #region policy

// Policy selects actions epsilon-greedily over a Q-table and owns the
// mutable epsilon. The rand source is injectable so exploitation-only tests
// are deterministic.
type Policy struct {
	mu      sync.Mutex
	table   *QTable
	hp      Hyperparams
	epsilon float64
	rng     *rand.Rand
}

// New creates a policy over the given table. src may be nil for a
// time-seeded source.
func New(table *QTable, hp Hyperparams, src rand.Source) *Policy {
	if src == nil {
		src = rand.NewSource(rand.Int63())
	}
	return &Policy{
		table:   table,
		hp:      hp,
		epsilon: hp.Epsilon,
		rng:     rand.New(src),
	}
}

// Table returns the underlying Q-table.
func (p *Policy) Table() *QTable { return p.table }

// Hyperparams returns the parameters with the current epsilon folded in.
func (p *Policy) Hyperparams() Hyperparams {
	p.mu.Lock()
	defer p.mu.Unlock()
	hp := p.hp
	hp.Epsilon = p.epsilon
	return hp
}

// Epsilon returns the current exploration rate.
func (p *Policy) Epsilon() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.epsilon
}

// #endregion policy

// #region select

// SelectAction picks uniformly at random from applicable with probability
// epsilon, otherwise the applicable action with the highest Q-value. Ties
// break by position in applicable, which callers supply in enumeration order.
func (p *Policy) SelectAction(stateKey string, applicable []action.Action) action.Action {
	if len(applicable) == 0 {
		return action.NoOp
	}

	p.mu.Lock()
	explore := p.rng.Float64() < p.epsilon
	var pick int
	if explore {
		pick = p.rng.Intn(len(applicable))
	}
	p.mu.Unlock()

	if explore {
		return applicable[pick]
	}

	best := applicable[0]
	bestQ := p.table.Get(stateKey, best)
	for _, a := range applicable[1:] {
		if q := p.table.Get(stateKey, a); q > bestQ {
			best, bestQ = a, q
		}
	}
	return best
}

// #endregion select

// #region update

// UpdateQ runs the Bellman update for the observed transition.
func (p *Policy) UpdateQ(stateKey string, a action.Action, reward float64, nextStateKey string, applicable []action.Action) float64 {
	return p.table.Update(stateKey, a, reward, nextStateKey, applicable, p.hp.Alpha, p.hp.Gamma)
}

// DecayEpsilon applies epsilon ← max(epsilonMin, epsilon·epsilonDecay).
// Called once per completed session, not per iteration.
func (p *Policy) DecayEpsilon() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epsilon *= p.hp.EpsilonDecay
	if p.epsilon < p.hp.EpsilonMin {
		p.epsilon = p.hp.EpsilonMin
	}
}

// #endregion update
