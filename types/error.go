package types

import (
	"github.com/juju/errors"
)

var (
	_ error = &StructuralError{}
	_ error = &NodeExecutionError{}
	_ error = &TimeoutError{}
	_ error = &CheckpointError{}
)

/**
 * StructuralError: cycle detected, dangling edge, invalid tree shape.
 * Raised before any node runs, never retried.
 */
func NewStructuralError(otherErr error) error {
	return &StructuralError{baseError: newBaseErr(otherErr)}
}

func NewStructuralErrorf(format string, args ...interface{}) error {
	return NewStructuralError(errors.Errorf(format, args...))
}

/**
 * NodeExecutionError: the injected node-executor returned an error.
 * Recoverable under chain retry, poisons dependents in graph/tree.
 */
func NewNodeExecutionError(nodeID string, otherErr error) error {
	return &NodeExecutionError{baseError: newBaseErr(otherErr), NodeID: nodeID}
}

// TimeoutError is a NodeExecutionError variant that also triggered
// cooperative cancellation.
func NewTimeoutError(nodeID string, otherErr error) error {
	return &TimeoutError{NodeExecutionError: NodeExecutionError{baseError: newBaseErr(otherErr), NodeID: nodeID}}
}

/**
 * CheckpointError: malformed or stale checkpoint on resume. Fatal for the
 * resume call only, the underlying topology is untouched.
 */
func NewCheckpointError(otherErr error) error {
	return &CheckpointError{baseError: newBaseErr(otherErr)}
}

func NewCheckpointErrorf(format string, args ...interface{}) error {
	return NewCheckpointError(errors.Errorf(format, args...))
}

func newBaseErr(otherErr error) *baseError {
	return &baseError{unwrapErr(otherErr)}
}

func unwrapErr(err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := err.(wrappedErr); ok {
		return unwrapErr(ue.UnwrapLocal())
	}
	return err
}

func IsStructural(err error) bool {
	_, ok := errors.Unwrap(err).(*StructuralError)
	if !ok {
		_, ok = err.(*StructuralError)
	}
	return ok
}

func IsTimeout(err error) bool {
	_, ok := errors.Unwrap(err).(*TimeoutError)
	if !ok {
		_, ok = err.(*TimeoutError)
	}
	return ok
}

func IsCheckpoint(err error) bool {
	_, ok := errors.Unwrap(err).(*CheckpointError)
	if !ok {
		_, ok = err.(*CheckpointError)
	}
	return ok
}

type wrappedErr interface {
	UnwrapLocal() error
}

type baseError struct {
	BaseErr error
}

func (e *baseError) Error() string {
	return e.BaseErr.Error()
}

func (e *baseError) UnwrapLocal() error {
	return e.BaseErr
}

type StructuralError struct {
	*baseError
}

type NodeExecutionError struct {
	*baseError
	NodeID string
}

type TimeoutError struct {
	NodeExecutionError
}

type CheckpointError struct {
	*baseError
}
