package sim

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Element is one node of a circuit: a Gate, a Loop or a Measure. The set is
// closed; the unexported method keeps other packages from adding variants.
type Element interface {
	// MaxQubitIndex is the highest qubit index the element touches.
	MaxQubitIndex() uint8
	// CheckValidity reports the first structural problem against a register
	// of qubitCount qubits.
	CheckValidity(qubitCount uint8) error

	apply(ctx *ExecutionContext)
}

// Gate is a base gate plus the qubits that must all be 1 for it to act.
type Gate struct {
	Base     BaseGate
	Controls []uint8
}

// Qubits returns the targets followed by the controls.
func (g Gate) Qubits() []uint8 {
	return append(g.Base.Targets(), g.Controls...)
}

func (g Gate) MaxQubitIndex() uint8 {
	m := g.Base.maxQubitIndex()
	for _, c := range g.Controls {
		m = max(m, c)
	}
	return m
}

func (g Gate) CheckValidity(qubitCount uint8) error {
	qubits := g.Qubits()
	for _, q := range qubits {
		if q >= qubitCount {
			return &ValidationError{Qubit: int(q), Err: ErrQubitOutOfRange, Detail: g.String()}
		}
	}
	seen := make(map[uint8]bool, len(qubits))
	for _, q := range qubits {
		if seen[q] {
			return &ValidationError{Qubit: int(q), Err: ErrDuplicateQubit, Detail: g.String()}
		}
		seen[q] = true
	}
	return nil
}

func (g Gate) apply(ctx *ExecutionContext) {
	switch g.Base.Op {
	case OpNot, OpX:
		applyControlledX(ctx, g.Base.Target, g.Controls)
	case OpY:
		applyControlledY(ctx, g.Base.Target, g.Controls)
	case OpZ:
		applyControlledZ(ctx, g.Base.Target, g.Controls)
	case OpHadamard:
		applyControlledH(ctx, g.Base.Target, g.Controls)
	case OpSwap:
		applyControlledSwap(ctx, g.Base.Target, g.Base.Target2, g.Controls)
	default:
		panic(fmt.Sprintf("sim: unknown gate op %d", g.Base.Op))
	}
}

func (g Gate) String() string {
	if len(g.Controls) == 0 {
		return g.Base.String()
	}
	ctrl := make([]string, len(g.Controls))
	for i, c := range g.Controls {
		ctrl[i] = fmt.Sprint(c)
	}
	return fmt.Sprintf("%s ctrl[%s]", g.Base, strings.Join(ctrl, ","))
}

// Measure samples the current state, collapses it and records whether
// Target read 0 or 1 under ID.
type Measure struct {
	ID     string
	Target uint8
}

func (m Measure) MaxQubitIndex() uint8 {
	return m.Target
}

func (m Measure) CheckValidity(qubitCount uint8) error {
	if m.Target >= qubitCount {
		return &ValidationError{Qubit: int(m.Target), Err: ErrQubitOutOfRange, Detail: "measure " + m.ID}
	}
	return nil
}

func (m Measure) apply(ctx *ExecutionContext) {
	index := ctx.sample()
	ctx.collapse(index)
	one := index&ctx.mask(m.Target) != 0
	ctx.record(m.ID, one)

	ctx.logger.Debug("measured",
		zap.String("id", m.ID),
		zap.Uint8("qubit", m.Target),
		zap.Int("index", index),
		zap.Bool("one", one),
	)
}

// Loop repeats Body until Until holds. The condition is checked before
// every iteration, so a condition that already holds runs the body zero
// times.
type Loop struct {
	Body  Circuit
	Until StopCondition
}

func (l Loop) MaxQubitIndex() uint8 {
	return l.Body.MaxQubitIndex()
}

func (l Loop) CheckValidity(qubitCount uint8) error {
	if l.Body.qubitCount != qubitCount {
		return &ValidationError{
			Qubit:  -1,
			Err:    ErrQubitCountMismatch,
			Detail: fmt.Sprintf("loop body has %d qubits, circuit has %d", l.Body.qubitCount, qubitCount),
		}
	}
	if err := l.Body.CheckValidity(qubitCount); err != nil {
		return withPrefix(err, "loop")
	}
	return nil
}

func (l Loop) apply(ctx *ExecutionContext) {
	var iteration uint32
	for !l.Until.Evaluate(iteration, ctx) {
		l.Body.apply(ctx)
		iteration++
	}
	ctx.logger.Debug("loop done", zap.Uint32("iterations", iteration), zap.Stringer("until", l.Until))
}
