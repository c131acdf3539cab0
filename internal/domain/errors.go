package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ErrorKind classifies a pipeline failure so callers can branch on it
// instead of matching heterogeneous error strings.
type ErrorKind int

const (
	KindInput           ErrorKind = iota // request failed structural validation
	KindEmptyPool                        // a required candidate query returned zero rows
	KindMalformedOutput                  // generation response is not parseable JSON
	KindSchemaViolation                  // parsed JSON breaks the step's structural contract
	KindUpstream                         // generation service call failed
	KindConfig                           // service misconfigured (e.g. missing credentials)
	KindStorage                          // relational store failure
)

func (k ErrorKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindEmptyPool:
		return "empty_pool"
	case KindMalformedOutput:
		return "malformed_output"
	case KindSchemaViolation:
		return "schema_violation"
	case KindUpstream:
		return "upstream"
	case KindConfig:
		return "config"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// StepError is the single error shape a failed pipeline run surfaces: the
// originating step, the failure kind, and the underlying cause.
type StepError struct {
	Step string
	Kind ErrorKind
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %s: %v", e.Step, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func NewStepError(step string, kind ErrorKind, err error) *StepError {
	return &StepError{Step: step, Kind: kind, Err: err}
}

// AsStepError unwraps err into a *StepError if one is in its chain.
func AsStepError(err error) (*StepError, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
