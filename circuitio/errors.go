package circuitio

import "errors"

var (
	ErrLoopNotExpressible = errors.New("loops have no OpenQASM 2.0 form")
	ErrUnsupportedGate    = errors.New("unsupported gate")
	ErrMalformedLine      = errors.New("malformed line")
	ErrMissingQreg        = errors.New("no qreg declared before first instruction")
	ErrInvalidIdentifier  = errors.New("measurement id is not a valid register name")
	ErrInvalidElement     = errors.New("element must set exactly one of gate, measure or loop")
	ErrInvalidCondition   = errors.New("invalid stop condition")
	ErrTargetCount        = errors.New("wrong number of targets for gate")
	ErrQubitIndex         = errors.New("qubit index does not fit in a register")
	ErrUnknownFormat      = errors.New("unknown circuit format")
)
