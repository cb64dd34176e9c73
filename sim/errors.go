package sim

import (
	"errors"
	"fmt"
)

var (
	ErrQubitOutOfRange      = errors.New("qubit index out of range")
	ErrDuplicateQubit       = errors.New("qubit used more than once in a gate")
	ErrUnterminatedLoop     = errors.New("loop scope was never ended")
	ErrQubitCountMismatch   = errors.New("qubit count mismatch")
	ErrEmptyUniformState    = errors.New("uniform state needs at least one basis index")
	ErrBasisIndexOutOfRange = errors.New("basis index out of range")
	ErrAmplitudeCount       = errors.New("amplitude count is not 2^qubits")
	ErrNoOpenLoop           = errors.New("End called outside a loop scope")
	ErrNoQubits             = errors.New("a circuit needs at least one qubit")
	ErrTooManyQubits        = errors.New("register is too large")
)

// ValidationError reports a structural problem found while building a circuit.
// Path locates the offending element, e.g. "elements[2].loop.elements[0]".
type ValidationError struct {
	Path   string
	Qubit  int // -1 when the problem is not tied to a single qubit
	Err    error
	Detail string
}

func (e *ValidationError) Error() string {
	msg := e.Err.Error()
	if e.Qubit >= 0 {
		msg = fmt.Sprintf("%s: %d", msg, e.Qubit)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// withPrefix returns a copy of err with prefix prepended to its path.
// Errors that are not validation errors are returned untouched.
func withPrefix(err error, prefix string) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	cp := *ve
	if cp.Path == "" {
		cp.Path = prefix
	} else {
		cp.Path = prefix + "." + cp.Path
	}
	return &cp
}
