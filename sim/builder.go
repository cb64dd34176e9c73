package sim

import "fmt"

// Builder accumulates elements for a fixed register size. A circuit either
// builds completely or not at all.
type Builder struct {
	qubitCount uint8
	elements   []Element
	err        error

	// set while a BeginLoop scope is open on this builder
	open *Builder

	// set on builders returned by BeginLoop
	parent *Builder
	until  StopCondition
}

// NewBuilder starts an empty circuit over qubitCount qubits.
func NewBuilder(qubitCount uint8) *Builder {
	return &Builder{qubitCount: qubitCount}
}

// QubitCount is the register size.
func (b *Builder) QubitCount() uint8 {
	return b.qubitCount
}

// Add appends elements in order.
func (b *Builder) Add(elements ...Element) *Builder {
	for _, e := range elements {
		if g, ok := e.(Gate); ok {
			g.Controls = append([]uint8(nil), g.Controls...)
			e = g
		}
		b.elements = append(b.elements, e)
	}
	return b
}

// AddGate appends base controlled by controls (none for an uncontrolled gate).
func (b *Builder) AddGate(base BaseGate, controls ...uint8) *Builder {
	return b.Add(base.WithControls(controls...))
}

// AddMeasure appends a measurement of target recorded under id.
func (b *Builder) AddMeasure(id string, target uint8) *Builder {
	return b.Add(Measure{ID: id, Target: target})
}

// AddLoop wraps an independently built circuit in a Loop.
func (b *Builder) AddLoop(body Circuit, until StopCondition) *Builder {
	return b.Add(Loop{Body: body, Until: until})
}

// BeginLoop opens a loop scope and returns the builder for its body. Call
// End on the returned builder to close the scope and get b back.
func (b *Builder) BeginLoop(until StopCondition) *Builder {
	if b.open != nil && b.err == nil {
		b.err = &ValidationError{Qubit: -1, Err: ErrUnterminatedLoop, Detail: "BeginLoop called with a scope still open"}
	}
	child := &Builder{qubitCount: b.qubitCount, parent: b, until: until}
	b.open = child
	return child
}

// End closes the scope opened by BeginLoop, appends the loop to the
// enclosing builder and returns it. A scope can only be ended once.
func (b *Builder) End() *Builder {
	if b.parent == nil {
		b.err = &ValidationError{Qubit: -1, Err: ErrNoOpenLoop}
		return b
	}
	parent := b.parent
	b.parent = nil
	parent.open = nil
	if b.err != nil && parent.err == nil {
		parent.err = withPrefix(b.err, "loop")
	}
	if b.open != nil && parent.err == nil {
		parent.err = &ValidationError{Path: "loop", Qubit: -1, Err: ErrUnterminatedLoop}
	}
	body := Circuit{qubitCount: b.qubitCount, elements: append([]Element(nil), b.elements...)}
	parent.Add(Loop{Body: body, Until: b.until})
	return parent
}

// Build validates the accumulated elements and returns the circuit.
func (b *Builder) Build() (Circuit, error) {
	if b.qubitCount == 0 {
		return Circuit{}, &ValidationError{Qubit: -1, Err: ErrNoQubits}
	}
	if b.qubitCount > MaxQubits {
		return Circuit{}, &ValidationError{
			Qubit:  -1,
			Err:    ErrTooManyQubits,
			Detail: fmt.Sprintf("%d qubits, at most %d", b.qubitCount, MaxQubits),
		}
	}
	if b.err != nil {
		return Circuit{}, b.err
	}
	if b.open != nil {
		return Circuit{}, &ValidationError{Qubit: -1, Err: ErrUnterminatedLoop}
	}
	c := Circuit{qubitCount: b.qubitCount, elements: append([]Element(nil), b.elements...)}
	if err := c.CheckValidity(b.qubitCount); err != nil {
		return Circuit{}, err
	}
	return c, nil
}

// MustBuild is Build for fixtures whose validity is known; it panics on error.
func (b *Builder) MustBuild() Circuit {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
