package models

import "fmt"

// NotFoundError is returned when a referenced snapshot, asset, or
// portfolio id does not exist. The engine refuses to evaluate.
type NotFoundError struct {
	Kind string // "snapshot", "asset", "portfolio"
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// NewNotFoundError builds a NotFoundError for the given entity kind/id.
func NewNotFoundError(kind string, id int) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// ConfigError signals a violated invariant on a Snapshot or Override —
// negative horizon, non-monotone launch/expiry, a rate outside [0, 1],
// or an override missing a field its kind requires. Never silently
// repaired.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s", e.Reason)
}

// NewConfigError builds a ConfigError from a formatted reason.
func NewConfigError(format string, args ...interface{}) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// ScenarioConflictError signals that an override references a phase or
// portfolio member absent from the target snapshot/portfolio.
type ScenarioConflictError struct {
	Reason string
}

func (e *ScenarioConflictError) Error() string {
	return fmt.Sprintf("scenario conflict: %s", e.Reason)
}

// NewScenarioConflictError builds a ScenarioConflictError from a
// formatted reason.
func NewScenarioConflictError(format string, args ...interface{}) error {
	return &ScenarioConflictError{Reason: fmt.Sprintf(format, args...)}
}

// NumericWarning is attached to an EvaluationResult rather than raised —
// it records that a degenerate input produced a non-finite intermediate
// and the engine substituted a safe value and proceeded.
type NumericWarning struct {
	Field  string
	Reason string
}

func (w NumericWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Reason)
}
