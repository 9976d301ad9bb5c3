package mbt

import "fmt"

// ErrorCode represents specific error conditions in model building,
// test generation and exploration
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// A transition was declared that contradicts an existing one
	ErrCodeConflict
	// A state or event was referenced before being registered
	ErrCodeUnknownReference
	// Strategy or explorer parameters are invalid
	ErrCodeInvalidConfiguration
	// The assembler was given a degenerate walk
	ErrCodeEmptyWalk
	// The system under test behaved non-deterministically
	ErrCodeModelViolation
	// The system under test faulted during exploration
	ErrCodeSUTFault
)

// ConflictError reports a non-deterministic transition declaration: the
// (source, event) pair already maps to a different target
type ConflictError struct {
	Source   string
	Event    string
	Existing string
	Proposed string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting transition [%s on %s]: already maps to '%s', got '%s'",
		e.Source, e.Event, e.Existing, e.Proposed)
}

// NewConflictError creates a new conflicting transition error
func NewConflictError(source, event, existing, proposed string) *ConflictError {
	return &ConflictError{
		Source:   source,
		Event:    event,
		Existing: existing,
		Proposed: proposed,
	}
}

// UnknownReferenceError reports a dangling state or event reference
type UnknownReferenceError struct {
	Kind string // "state" or "event"
	Name string
	Op   string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown %s '%s' in %s", e.Kind, e.Name, e.Op)
}

// NewUnknownStateError creates a reference error for an unregistered state
func NewUnknownStateError(name, op string) *UnknownReferenceError {
	return &UnknownReferenceError{Kind: "state", Name: name, Op: op}
}

// NewUnknownEventError creates a reference error for an unregistered event
func NewUnknownEventError(name, op string) *UnknownReferenceError {
	return &UnknownReferenceError{Kind: "event", Name: name, Op: op}
}

// ConfigurationError represents invalid strategy or explorer parameters
type ConfigurationError struct {
	Component string
	Issue     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Issue)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(component, issue string) *ConfigurationError {
	return &ConfigurationError{
		Component: component,
		Issue:     issue,
	}
}

// EmptyWalkError reports that the case assembler was handed a walk with no
// transitions
type EmptyWalkError struct {
	Op string
}

func (e *EmptyWalkError) Error() string {
	return fmt.Sprintf("empty walk in %s", e.Op)
}

// NewEmptyWalkError creates a new empty walk error
func NewEmptyWalkError(op string) *EmptyWalkError {
	return &EmptyWalkError{Op: op}
}

// ModelViolationError reports that repeated probes of the same (state, event)
// pair observed different target states. The model under construction is
// frozen when this is raised.
type ModelViolationError struct {
	Source   string
	Event    string
	Recorded string
	Observed string
}

func (e *ModelViolationError) Error() string {
	return fmt.Sprintf("model violation [%s on %s]: recorded target '%s', observed '%s'",
		e.Source, e.Event, e.Recorded, e.Observed)
}

// NewModelViolationError creates a new model violation error
func NewModelViolationError(source, event, recorded, observed string) *ModelViolationError {
	return &ModelViolationError{
		Source:   source,
		Event:    event,
		Recorded: recorded,
		Observed: observed,
	}
}

// SUTFaultError reports that the adapter failed while exploring: a timeout,
// crash or unreachable system. The fault is surfaced, never retried here;
// retry policy belongs to the adapter.
type SUTFaultError struct {
	Op    string
	Event string
	Err   error
}

func (e *SUTFaultError) Error() string {
	if e.Event != "" {
		return fmt.Sprintf("SUT fault during %s on event '%s': %v", e.Op, e.Event, e.Err)
	}
	return fmt.Sprintf("SUT fault during %s: %v", e.Op, e.Err)
}

func (e *SUTFaultError) Unwrap() error {
	return e.Err
}

// NewSUTFaultError creates a new SUT fault error
func NewSUTFaultError(op, event string, err error) *SUTFaultError {
	return &SUTFaultError{
		Op:    op,
		Event: event,
		Err:   err,
	}
}

// IsConflictError checks if an error is a ConflictError
func IsConflictError(err error) bool {
	_, ok := err.(*ConflictError)
	return ok
}

// IsUnknownReferenceError checks if an error is an UnknownReferenceError
func IsUnknownReferenceError(err error) bool {
	_, ok := err.(*UnknownReferenceError)
	return ok
}

// IsConfigurationError checks if an error is a ConfigurationError
func IsConfigurationError(err error) bool {
	_, ok := err.(*ConfigurationError)
	return ok
}

// IsEmptyWalkError checks if an error is an EmptyWalkError
func IsEmptyWalkError(err error) bool {
	_, ok := err.(*EmptyWalkError)
	return ok
}

// IsModelViolationError checks if an error is a ModelViolationError
func IsModelViolationError(err error) bool {
	_, ok := err.(*ModelViolationError)
	return ok
}

// IsSUTFaultError checks if an error is a SUTFaultError
func IsSUTFaultError(err error) bool {
	_, ok := err.(*SUTFaultError)
	return ok
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	switch err.(type) {
	case *ConflictError:
		return ErrCodeConflict
	case *UnknownReferenceError:
		return ErrCodeUnknownReference
	case *ConfigurationError:
		return ErrCodeInvalidConfiguration
	case *EmptyWalkError:
		return ErrCodeEmptyWalk
	case *ModelViolationError:
		return ErrCodeModelViolation
	case *SUTFaultError:
		return ErrCodeSUTFault
	default:
		return ErrCodeNone
	}
}
