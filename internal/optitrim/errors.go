package optitrim

import "fmt"

// DataAccessError means the input dataset could not be read or is empty.
// It is fatal: no trials run after one of these.
type DataAccessError struct {
	Path string
	Err  error
}

func (e *DataAccessError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot read sequence data at %s", e.Path)
	}
	return fmt.Sprintf("cannot read sequence data at %s: %v", e.Path, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// ConfigurationError means the caller-supplied settings are inconsistent.
// Surfaced before any trial runs.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

// BudgetExhaustedError means the trial count or timeout was reached without
// a single scored trial, so no parameter recommendation can be produced.
type BudgetExhaustedError struct {
	Trials int
	Pruned int
	Failed int
}

func (e *BudgetExhaustedError) Error() string {
	return fmt.Sprintf(
		"no feasible trial was scored in %d trials (%d pruned, %d failed); widen the truncation bounds or check the denoiser setup",
		e.Trials, e.Pruned, e.Failed,
	)
}
