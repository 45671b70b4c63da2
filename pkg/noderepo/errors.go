package noderepo

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrConfig indicates invalid construction arguments.
	ErrConfig = errors.New("invalid configuration")

	// ErrValidation indicates a property value was rejected by a value
	// type's check.
	ErrValidation = errors.New("value rejected")

	// ErrImmutableProperty indicates a write to a read-only property. It is
	// a validation failure: errors.Is(err, ErrValidation) holds.
	ErrImmutableProperty = fmt.Errorf("property is read-only: %w", ErrValidation)

	// ErrRequiredProperty indicates removal of a property that may not be
	// unset. It is a validation failure: errors.Is(err, ErrValidation) holds.
	ErrRequiredProperty = fmt.Errorf("property is required: %w", ErrValidation)

	// ErrNotFound indicates a path did not resolve to a node or property.
	ErrNotFound = errors.New("path not found")

	// ErrUnknownProperty indicates a property name absent from its node
	// type's effective property map.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrUnsupportedMode indicates a stream was requested in an access mode
	// the engine does not support.
	ErrUnsupportedMode = errors.New("unsupported access mode")

	// ErrEngineLoad indicates an engine could not be resolved or constructed.
	ErrEngineLoad = errors.New("engine load failed")
)

// PathError represents a failure of a path-keyed engine operation.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// TypeError represents a failure involving a named type descriptor.
type TypeError struct {
	Type string
	Err  error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type %s: %v", e.Type, e.Err)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// EngineError represents a failure to resolve or construct a storage engine.
type EngineError struct {
	Engine string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine %s: %v", e.Engine, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}
