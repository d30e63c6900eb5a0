package store

import "strings"

const (
	errNoFoods = "Configuration must have at least one food item"
	errNoName  = "Configuration name is required"
)

// ValidationResult collects every problem found with a configuration.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Err returns the result as a *ValidationError, or nil when valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}

// Validate checks cfg before it is saved. The store itself never calls it.
func Validate(cfg Configuration) ValidationResult {
	var errs []string
	if cfg.FoodCount() == 0 {
		errs = append(errs, errNoFoods)
	}
	if strings.TrimSpace(cfg.Name) == "" {
		errs = append(errs, errNoName)
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
