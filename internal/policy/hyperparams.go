package policy

// #region hyperparams

// Hyperparams are the learning parameters. Loaded once per process, mutated
// only by epsilon decay, and persisted alongside the Q-table snapshot.
type Hyperparams struct {
	Alpha                float64 `json:"alpha" yaml:"alpha"`                 // learning rate
	Gamma                float64 `json:"gamma" yaml:"gamma"`                 // discount factor
	Epsilon              float64 `json:"epsilon" yaml:"epsilon"`             // exploration rate
	EpsilonDecay         float64 `json:"epsilon_decay" yaml:"epsilon_decay"` // per-session multiplier
	EpsilonMin           float64 `json:"epsilon_min" yaml:"epsilon_min"`
	MaxQTableSize        int     `json:"max_qtable_size" yaml:"max_qtable_size"`
	MaxExperiences       int     `json:"max_experiences" yaml:"max_experiences"`
	MaxIterations        int     `json:"max_iterations" yaml:"max_iterations"`
	ConvergenceThreshold float64 `json:"convergence_threshold" yaml:"convergence_threshold"`
}

// Default returns the stock hyperparameters.
func Default() Hyperparams {
	return Hyperparams{
		Alpha:                0.1,
		Gamma:                0.9,
		Epsilon:              0.3,
		EpsilonDecay:         0.95,
		EpsilonMin:           0.05,
		MaxQTableSize:        500,
		MaxExperiences:       1000,
		MaxIterations:        10,
		ConvergenceThreshold: 100,
	}
}

// #endregion hyperparams
