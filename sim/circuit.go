package sim

import (
	"fmt"

	"go.uber.org/zap"
)

// Circuit is a validated, ordered sequence of elements for a fixed register
// size. Circuits are only produced by a Builder and are never modified
// afterwards, so they can be shared freely between executions.
type Circuit struct {
	qubitCount uint8
	elements   []Element
}

// QubitCount is the register size.
func (c Circuit) QubitCount() uint8 {
	return c.qubitCount
}

// Len is the number of top-level elements.
func (c Circuit) Len() int {
	return len(c.elements)
}

// Elements returns a copy of the top-level elements.
func (c Circuit) Elements() []Element {
	return append([]Element(nil), c.elements...)
}

func (c Circuit) MaxQubitIndex() uint8 {
	if c.qubitCount == 0 {
		return 0
	}
	return c.qubitCount - 1
}

func (c Circuit) CheckValidity(qubitCount uint8) error {
	for i, e := range c.elements {
		if err := e.CheckValidity(qubitCount); err != nil {
			return withPrefix(err, fmt.Sprintf("elements[%d]", i))
		}
	}
	return nil
}

func (c Circuit) apply(ctx *ExecutionContext) {
	for _, e := range c.elements {
		e.apply(ctx)
	}
}

// Execute runs the circuit against a copy of initial and returns the final
// context. Execution cannot fail for a built circuit; a state with a
// different qubit count is a programming error and panics.
func (c Circuit) Execute(initial *State, opts ...ExecuteOption) *ExecutionContext {
	if initial.QubitCount() != c.qubitCount {
		panic(fmt.Errorf("%w: circuit has %d qubits, state has %d", ErrQubitCountMismatch, c.qubitCount, initial.QubitCount()))
	}
	ctx := NewExecutionContext(initial, opts...)
	ctx.logger.Debug("execute", zap.Uint8("qubits", c.qubitCount), zap.Int("elements", len(c.elements)))
	c.apply(ctx)
	ctx.logger.Debug("execute done", zap.Strings("ids", ctx.IDs()), zap.Bool("measured", ctx.outcome.Measured))
	return ctx
}

// Walk visits every element depth first, loop bodies included. depth is 0
// for top-level elements.
func (c Circuit) Walk(fn func(e Element, depth int)) {
	c.walk(fn, 0)
}

func (c Circuit) walk(fn func(Element, int), depth int) {
	for _, e := range c.elements {
		fn(e, depth)
		if l, ok := e.(Loop); ok {
			l.Body.walk(fn, depth+1)
		}
	}
}
