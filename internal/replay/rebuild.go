package replay

// #region imports
import (
	"github.com/danielpatrickdp/rl-optimizer/internal/action"
	"github.com/danielpatrickdp/rl-optimizer/internal/experience"
	"github.com/danielpatrickdp/rl-optimizer/internal/policy"
)

// #endregion imports

// #region rebuild

// RebuildQTable folds a recorded experience log through the Bellman update
// in original order, producing a fresh Q-table for offline inspection. Each
// transition carries the applicable set the policy saw, so the next-state
// max reproduces the live update exactly; records from before the set was
// persisted fall back to the full enumeration.
func RebuildQTable(items []experience.Experience, hp policy.Hyperparams) *policy.QTable {
	table := policy.NewQTable(hp.MaxQTableSize)
	for _, e := range items {
		applicable := e.Applicable
		if len(applicable) == 0 {
			applicable = action.All()
		}
		table.Update(e.StateKey, e.Action, e.Reward, e.NextStateKey, applicable, hp.Alpha, hp.Gamma)
	}
	return table
}

// #endregion rebuild
