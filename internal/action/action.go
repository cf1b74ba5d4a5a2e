package action

// #region imports
import "github.com/danielpatrickdp/rl-optimizer/internal/objective"

// #endregion imports

// #region action

// Action is one transformation tag from the closed enumeration. The tag is
// used directly as the Q-table column; any parameters (which field, which
// filter value) are derived deterministically from the objective when the
// action is applied.
type Action string

const (
	UseGenerator     Action = "use_generator"
	AddField         Action = "add_field"
	RemoveField      Action = "remove_field"
	AddFilter        Action = "add_filter"
	AddAggregation   Action = "add_aggregation"
	FixEntityMapping Action = "fix_entity_mapping"
	Reset            Action = "reset"
	NoOp             Action = "no_op"
)

// SetVersion identifies the enumeration above. Bump when the set changes so
// persisted Q-tables from older sets are not silently reused.
const SetVersion = 1

// MinResetIteration is the first iteration at which Reset becomes applicable,
// to avoid trivial oscillation between fresh generations.
const MinResetIteration = 3

// All returns every action in enumeration order. Exploitation tie-breaks
// follow this order.
func All() []Action {
	return []Action{
		UseGenerator,
		AddField,
		RemoveField,
		AddFilter,
		AddAggregation,
		FixEntityMapping,
		Reset,
		NoOp,
	}
}

// #endregion action

// #region apply-result

// ApplyResult is the tagged outcome of applying an action: either a
// transformed candidate, or a signal that the external generator must be
// invoked instead. Never a bare nil.
type ApplyResult struct {
	Candidate          objective.Candidate
	RequiresGeneration bool
	FromScratch        bool // generation should discard the previous candidate
}

// Transformed wraps a pure transformation result.
func Transformed(c objective.Candidate) ApplyResult {
	return ApplyResult{Candidate: c}
}

// RequiresGeneration signals the driver to call the generator. fromScratch
// drops the previous candidate from the generation request (Reset semantics).
func RequiresGeneration(fromScratch bool) ApplyResult {
	return ApplyResult{RequiresGeneration: true, FromScratch: fromScratch}
}

// #endregion apply-result
