package overrides

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOverride is returned by a Finder when no unit exists for a namespace.
	ErrNoOverride = errors.New("no override unit")
	// ErrAlreadyBound is returned when a namespace is bound a second time to a
	// different module.
	ErrAlreadyBound = errors.New("namespace already bound")
	// ErrUnknownNamespace is returned for namespaces that were never bound.
	ErrUnknownNamespace = errors.New("unknown namespace")
	// ErrNotProxied is returned when an override targets a namespace whose
	// registered module is not a proxy.
	ErrNotProxied = errors.New("namespace is not proxied")
)

// EvaluationError wraps a failure raised while evaluating an existing unit.
type EvaluationError struct {
	Namespace string
	Err       error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluating override unit for '%s': %v", e.Namespace, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// ConsistencyError reports an authoring bug in an override unit.
type ConsistencyError struct {
	Namespace string
	Name      string
	Reason    string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("override unit for '%s': %s %s", e.Namespace, e.Name, e.Reason)
}
