package objective

// #region imports
import (
	"errors"
	"fmt"
)

// #endregion imports

// #region errors

// ErrMalformed is wrapped by every validation failure so callers can
// distinguish a bad objective from any other error with errors.Is.
var ErrMalformed = errors.New("malformed objective")

// #endregion errors

// #region validate

// Validate checks that an objective is well-formed. It runs before any
// iteration so a bad objective never produces a partial session.
func Validate(o Objective) error {
	if o.Intent == "" {
		return fmt.Errorf("%w: intent is required", ErrMalformed)
	}
	if o.Constraints.MaxIterations < 0 {
		return fmt.Errorf("%w: max_iterations must be >= 0, got %d", ErrMalformed, o.Constraints.MaxIterations)
	}
	if o.Constraints.ConvergenceThreshold < 0 {
		return fmt.Errorf("%w: convergence_threshold must be >= 0, got %g", ErrMalformed, o.Constraints.ConvergenceThreshold)
	}
	forbidden := make(map[string]bool, len(o.Constraints.ForbiddenFields))
	for _, f := range o.Constraints.ForbiddenFields {
		if f == "" {
			return fmt.Errorf("%w: forbidden field names must be non-empty", ErrMalformed)
		}
		forbidden[f] = true
	}
	for _, f := range o.Constraints.RequiredFields {
		if f == "" {
			return fmt.Errorf("%w: required field names must be non-empty", ErrMalformed)
		}
		if forbidden[f] {
			return fmt.Errorf("%w: field %q is both required and forbidden", ErrMalformed, f)
		}
	}
	for entity, field := range o.Scope.Entities {
		if entity == "" || field == "" {
			return fmt.Errorf("%w: entity mappings must have non-empty entity and field", ErrMalformed)
		}
	}
	return nil
}

// #endregion validate
