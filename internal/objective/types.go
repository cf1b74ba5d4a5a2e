package objective

// #region scope

// Scope narrows an objective to a concrete slice of the data:
// filter values, a timeframe expression, entity-to-field mappings,
// and the table the candidate should read from.
type Scope struct {
	Table     string            `json:"table"`
	Filters   map[string]string `json:"filters,omitempty"`   // field → required value
	Timeframe string            `json:"timeframe,omitempty"` // SQL fragment, e.g. "order_date >= '2026-01-01'"
	Entities  map[string]string `json:"entities,omitempty"`  // entity literal → mapped field
}

// #endregion scope

// #region constraints

// Constraints are the hard requirements a candidate must satisfy.
type Constraints struct {
	RequiredFields       []string `json:"required_fields,omitempty"`
	ForbiddenFields      []string `json:"forbidden_fields,omitempty"`
	MaxIterations        int      `json:"max_iterations,omitempty"`
	ConvergenceThreshold float64  `json:"convergence_threshold,omitempty"`
}

// #endregion constraints

// #region objective

// Objective is the caller-supplied goal description. Immutable for the
// duration of one optimization session.
type Objective struct {
	ID          string      `json:"id,omitempty"`
	Intent      string      `json:"intent"`
	Scope       Scope       `json:"scope"`
	Constraints Constraints `json:"constraints"`
}

// #endregion objective

// #region candidate

// Candidate is the artifact under optimization. Implementations must hash
// over content only, never over volatile fields like timestamps.
type Candidate interface {
	Hash() string
	Content() string
}

// Text is a plain-string candidate, the payload type used by the SQL strategy.
type Text string

// Hash returns the FNV-1a hash of the text.
func (t Text) Hash() string { return hashString(string(t)) }

// Content returns the raw text.
func (t Text) Content() string { return string(t) }

// #endregion candidate

// #region analysis

// Analysis is the feature map produced by an analyzer callback.
// Boolean features are encoded as 0/1.
type Analysis map[string]float64

// #endregion analysis

// #region evaluation

// Feedback explains why an evaluation failed and how to fix it.
type Feedback struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
}

// ExecutionMetrics are optional runtime measurements for an executed candidate.
type ExecutionMetrics struct {
	DurationMillis int64 `json:"duration_millis"`
	RowCount       int   `json:"row_count"`
	ExpectedRows   int   `json:"expected_rows,omitempty"` // 0 = no expectation
}

// Evaluation is the result of the constraint checker. A failed evaluation is
// a normal loop input, not an error.
type Evaluation struct {
	Passed   bool              `json:"passed"`
	Feedback *Feedback         `json:"feedback,omitempty"`
	Metrics  *ExecutionMetrics `json:"metrics,omitempty"`
}

// #endregion evaluation
