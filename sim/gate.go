package sim

import (
	"fmt"
	"strings"
)

// GateOp identifies the uncontrolled transform of a BaseGate.
type GateOp uint8

const (
	OpNot GateOp = iota
	OpX
	OpY
	OpZ
	OpHadamard
	OpSwap
)

var gateOpNames = [...]string{
	OpNot:      "not",
	OpX:        "x",
	OpY:        "y",
	OpZ:        "z",
	OpHadamard: "hadamard",
	OpSwap:     "swap",
}

func (op GateOp) String() string {
	if int(op) < len(gateOpNames) {
		return gateOpNames[op]
	}
	return fmt.Sprintf("GateOp(%d)", uint8(op))
}

// Arity is the number of target qubits the op acts on.
func (op GateOp) Arity() int {
	if op == OpSwap {
		return 2
	}
	return 1
}

// ParseGateOp accepts the names produced by GateOp.String, case-insensitively,
// plus the short aliases "h" and "pauli-x/y/z".
func ParseGateOp(name string) (GateOp, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "not":
		return OpNot, nil
	case "x", "pauli-x":
		return OpX, nil
	case "y", "pauli-y":
		return OpY, nil
	case "z", "pauli-z":
		return OpZ, nil
	case "hadamard", "h":
		return OpHadamard, nil
	case "swap":
		return OpSwap, nil
	}
	return 0, fmt.Errorf("unknown gate %q", name)
}

// BaseGate is a gate without controls. Target2 is only meaningful for OpSwap.
type BaseGate struct {
	Op      GateOp
	Target  uint8
	Target2 uint8
}

// Single-target base gates.

func Not(target uint8) BaseGate { return BaseGate{Op: OpNot, Target: target} }
func X(target uint8) BaseGate   { return BaseGate{Op: OpX, Target: target} }
func Y(target uint8) BaseGate   { return BaseGate{Op: OpY, Target: target} }
func Z(target uint8) BaseGate   { return BaseGate{Op: OpZ, Target: target} }
func H(target uint8) BaseGate   { return BaseGate{Op: OpHadamard, Target: target} }

// Swap exchanges target1 and target2.
func Swap(target1, target2 uint8) BaseGate {
	return BaseGate{Op: OpSwap, Target: target1, Target2: target2}
}

// Targets returns the qubits the gate acts on.
func (b BaseGate) Targets() []uint8 {
	if b.Op == OpSwap {
		return []uint8{b.Target, b.Target2}
	}
	return []uint8{b.Target}
}

func (b BaseGate) maxQubitIndex() uint8 {
	if b.Op == OpSwap {
		return max(b.Target, b.Target2)
	}
	return b.Target
}

// Gate returns the uncontrolled gate.
func (b BaseGate) Gate() Gate {
	return Gate{Base: b}
}

// WithControl returns b controlled by a single qubit (CNot for Not).
func (b BaseGate) WithControl(control uint8) Gate {
	return Gate{Base: b, Controls: []uint8{control}}
}

// WithControls returns b controlled by every given qubit (Toffoli for Not
// with two controls).
func (b BaseGate) WithControls(controls ...uint8) Gate {
	return Gate{Base: b, Controls: append([]uint8(nil), controls...)}
}

func (b BaseGate) String() string {
	if b.Op == OpSwap {
		return fmt.Sprintf("%s(%d,%d)", b.Op, b.Target, b.Target2)
	}
	return fmt.Sprintf("%s(%d)", b.Op, b.Target)
}

// CNot flips target when control is 1.
func CNot(target, control uint8) Gate {
	return Not(target).WithControl(control)
}

// Toffoli flips target when both controls are 1.
func Toffoli(target, control1, control2 uint8) Gate {
	return Not(target).WithControls(control1, control2)
}

// CSwap swaps the targets when control is 1.
func CSwap(target1, target2, control uint8) Gate {
	return Swap(target1, target2).WithControl(control)
}

// Fredkin is another name for CSwap.
func Fredkin(target1, target2, control uint8) Gate {
	return CSwap(target1, target2, control)
}
