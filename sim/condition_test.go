package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStopCondition(t *testing.T) {
	ctx := NewExecutionContext(ZeroState(1))
	ctx.record("a", false)
	ctx.record("a", false)
	ctx.record("a", true)

	tests := []struct {
		name      string
		cond      StopCondition
		iteration uint32
		want      bool
	}{
		{"once before first", Once(), 0, false},
		{"once after first", Once(), 1, true},
		{"max iteration below", MaxIteration(3), 2, false},
		{"max iteration reached", MaxIteration(3), 3, true},
		{"max iteration zero", MaxIteration(0), 0, true},
		{"zeros reached", MaxZeroSampling("a", 2), 0, true},
		{"zeros below", MaxZeroSampling("a", 3), 0, false},
		{"ones reached", MaxOneSampling("a", 1), 0, true},
		{"ones below", MaxOneSampling("a", 2), 0, false},
		{"unknown id counts zero", MaxZeroSampling("b", 1), 100, false},
		{"unknown id with zero threshold", MaxOneSampling("b", 0), 0, true},
		{"or one side", Or(MaxIteration(10), MaxOneSampling("a", 1)), 0, true},
		{"or neither", Or(MaxIteration(10), MaxOneSampling("a", 5)), 0, false},
		{"and both", And(MaxIteration(1), MaxZeroSampling("a", 2)), 1, true},
		{"and one side", And(MaxIteration(2), MaxZeroSampling("a", 2)), 1, false},
		{"nested", Or(And(Once(), MaxOneSampling("b", 1)), MaxIteration(5)), 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Evaluate(tt.iteration, ctx))
		})
	}
}

func TestStopConditionString(t *testing.T) {
	cond := Or(MaxZeroSampling("q0", 10), And(Once(), MaxOneSampling("q1", 2)))
	assert.Equal(t, "(zeros(q0)>=10 or (once and ones(q1)>=2))", cond.String())
	assert.Equal(t, "iterations>=4", MaxIteration(4).String())
}
