package sim

// Computer fixes the register size shared by its builders and states.
type Computer struct {
	qubitCount uint8
}

// NewComputer returns a computer with a register of qubitCount qubits.
func NewComputer(qubitCount uint8) *Computer {
	return &Computer{qubitCount: qubitCount}
}

// QubitCount is the register size.
func (c *Computer) QubitCount() uint8 {
	return c.qubitCount
}

// NewBuilder returns an empty builder sized to the register.
func (c *Computer) NewBuilder() *Builder {
	return NewBuilder(c.qubitCount)
}

// BellState returns a builder pre-loaded with H(0) followed by a CNot chain
// that entangles every qubit with its predecessor.
func (c *Computer) BellState() *Builder {
	b := c.NewBuilder().AddGate(H(0))
	for i := uint8(1); i < c.qubitCount; i++ {
		b.Add(CNot(i, i-1))
	}
	return b
}

// ZeroState returns |00...0> for the register.
func (c *Computer) ZeroState() *State {
	return ZeroState(c.qubitCount)
}

// UniformState is UniformState sized to the register.
func (c *Computer) UniformState(indices ...int) (*State, error) {
	return UniformState(c.qubitCount, indices...)
}

// Execute runs circuit from initial and returns the final context.
func (c *Computer) Execute(circuit Circuit, initial *State, opts ...ExecuteOption) *ExecutionContext {
	return circuit.Execute(initial, opts...)
}
