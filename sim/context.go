package sim

import (
	"maps"
	"slices"

	"go.uber.org/zap"
)

// MeasureCount accumulates the outcomes of one measurement id.
type MeasureCount struct {
	Zeros uint32
	Ones  uint32
}

// Total is the number of times the id was measured.
func (c MeasureCount) Total() uint32 {
	return c.Zeros + c.Ones
}

// Outcome tells whether the current state is the direct result of a
// measurement and, if so, which basis index it collapsed to.
type Outcome struct {
	Measured bool
	Index    int
}

// ExecutionContext is the mutable state threaded through one execution.
// It is owned by a single run and must not be shared between goroutines.
type ExecutionContext struct {
	current *State
	outcome Outcome
	counts  map[string]*MeasureCount

	random RandomSource
	logger *zap.Logger
}

// NewExecutionContext starts a run from a deep copy of initial.
func NewExecutionContext(initial *State, opts ...ExecuteOption) *ExecutionContext {
	cfg := newExecuteConfig(opts)
	return &ExecutionContext{
		current: initial.Clone(),
		counts:  make(map[string]*MeasureCount),
		random:  cfg.random,
		logger:  cfg.logger,
	}
}

// QubitCount is the register size of the current state.
func (c *ExecutionContext) QubitCount() uint8 {
	return c.current.qubitCount
}

// State returns a copy of the current state.
func (c *ExecutionContext) State() *State {
	return c.current.Clone()
}

// Amplitude reads one amplitude of the current state without copying it.
func (c *ExecutionContext) Amplitude(index int) Complex {
	return c.current.amplitudes[index]
}

// Outcome reports the last measurement if no gate has run since.
func (c *ExecutionContext) Outcome() Outcome {
	return c.outcome
}

// Count returns the counters for id; an unknown id yields zero counts.
func (c *ExecutionContext) Count(id string) MeasureCount {
	if mc, ok := c.counts[id]; ok {
		return *mc
	}
	return MeasureCount{}
}

// Zeros is how often id read 0.
func (c *ExecutionContext) Zeros(id string) uint32 {
	return c.Count(id).Zeros
}

// Ones is how often id read 1.
func (c *ExecutionContext) Ones(id string) uint32 {
	return c.Count(id).Ones
}

// IDs returns the observed measurement ids in sorted order.
func (c *ExecutionContext) IDs() []string {
	return slices.Sorted(maps.Keys(c.counts))
}

// Counts returns a copy of every counter.
func (c *ExecutionContext) Counts() map[string]MeasureCount {
	out := make(map[string]MeasureCount, len(c.counts))
	for id, mc := range c.counts {
		out[id] = *mc
	}
	return out
}

func (c *ExecutionContext) mask(q uint8) int {
	return Mask(c.current.qubitCount, q)
}

func (c *ExecutionContext) controlMask(qubits []uint8) int {
	return ControlMask(c.current.qubitCount, qubits)
}

func (c *ExecutionContext) size() int {
	return len(c.current.amplitudes)
}

// replace installs the output of a gate kernel. A freshly transformed
// state is never the direct result of a measurement.
func (c *ExecutionContext) replace(next *State) {
	c.current = next
	c.outcome = Outcome{}
}

// sample draws a basis index from the current distribution by walking the
// cumulative probabilities in ascending order.
func (c *ExecutionContext) sample() int {
	budget := 1.0 - c.random.Float64()
	for i, a := range c.current.amplitudes {
		budget -= probability(a)
		if budget <= 0 {
			return i
		}
	}
	return len(c.current.amplitudes) - 1
}

func (c *ExecutionContext) collapse(index int) {
	c.current = BasisState(c.current.qubitCount, index)
	c.outcome = Outcome{Measured: true, Index: index}
}

func (c *ExecutionContext) record(id string, one bool) {
	mc, ok := c.counts[id]
	if !ok {
		mc = &MeasureCount{}
		c.counts[id] = mc
	}
	if one {
		mc.Ones++
	} else {
		mc.Zeros++
	}
}
