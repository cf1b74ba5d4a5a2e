package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
	"github.com/danielpatrickdp/rl-optimizer/internal/policy"
)

// #endregion imports

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: an objective
// plus the generator outputs to script, in call order.
type Fixture struct {
	Description string              `json:"description"`
	Objective   objective.Objective `json:"objective"`
	Generated   []string            `json:"generated"`
	Hyperparams *policy.Hyperparams `json:"hyperparams,omitempty"`
	Expected    *Expectation        `json:"expected,omitempty"`
}

// Expectation captures what a replay run must produce.
type Expectation struct {
	Converged     bool     `json:"converged"`
	MaxIterations int      `json:"max_iterations,omitempty"` // 0 = no bound check
	FinalContains []string `json:"final_contains,omitempty"`
	Actions       []string `json:"actions,omitempty"` // exact per-iteration sequence when set
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// #endregion fixture-loader
