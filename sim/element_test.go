package sim

import (
	"math/cmplx"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestMeasureSampling(t *testing.T) {
	uniform, err := UniformState(2, 0, 1, 2, 3)
	require.NoError(t, err)

	tests := []struct {
		name  string
		draw  float64
		index int
	}{
		{"small budget picks first", 0.9, 0},
		{"walks cumulative probabilities", 0.3, 2},
		{"full budget reaches last", 0.0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewExecutionContext(uniform, WithRandomSource(fixedSource(tt.draw)))
			Measure{ID: "m", Target: 1}.apply(ctx)
			assert.Equal(t, Outcome{Measured: true, Index: tt.index}, ctx.Outcome())
		})
	}

	t.Run("round-off falls back to last index", func(t *testing.T) {
		short, err := NewState(1, []Complex{0.5, 0.5})
		require.NoError(t, err)
		ctx := NewExecutionContext(short, WithRandomSource(fixedSource(0)))
		Measure{ID: "m", Target: 0}.apply(ctx)
		assert.Equal(t, 1, ctx.Outcome().Index)
	})
}

func TestMeasureCollapse(t *testing.T) {
	initial := randomState(3, 5)
	src := NewSeededSource(42)
	for target := range uint8(3) {
		ctx := NewExecutionContext(initial, WithRandomSource(src))
		Measure{ID: "q", Target: target}.apply(ctx)

		out := ctx.Outcome()
		require.True(t, out.Measured)

		nonzero := 0
		for i := range ctx.size() {
			if cmplx.Abs(ctx.Amplitude(i)) > tolerance {
				nonzero++
				assert.Equal(t, out.Index, i)
				assert.InDelta(t, 1.0, cmplx.Abs(ctx.Amplitude(i)), tolerance)
			}
		}
		assert.Equal(t, 1, nonzero)

		count := ctx.Count("q")
		assert.EqualValues(t, 1, count.Total(), spew.Sdump(ctx.Counts()))
		if out.Index&Mask(3, target) != 0 {
			assert.EqualValues(t, 1, count.Ones)
		} else {
			assert.EqualValues(t, 1, count.Zeros)
		}
	}
}

func TestGateClearsMeasuredFlag(t *testing.T) {
	c := NewBuilder(1).AddMeasure("m", 0).MustBuild()
	ctx := c.Execute(ZeroState(1), WithSeed(1))
	require.Equal(t, Outcome{Measured: true, Index: 0}, ctx.Outcome())

	H(0).Gate().apply(ctx)
	assert.False(t, ctx.Outcome().Measured)
}

func TestLoop(t *testing.T) {
	flip := NewBuilder(1).AddGate(X(0)).MustBuild()

	tests := []struct {
		name  string
		until StopCondition
		want  int
	}{
		{"max iteration zero runs nothing", MaxIteration(0), 0},
		{"once runs one iteration", Once(), 1},
		{"max iteration three", MaxIteration(3), 1},
		{"max iteration four", MaxIteration(4), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewBuilder(1).AddLoop(flip, tt.until).MustBuild()
			ctx := c.Execute(ZeroState(1))
			assertAmplitudes(t, ctx, map[int]Complex{tt.want: 1})
		})
	}
}

func TestLoopUntilFirstZero(t *testing.T) {
	body := NewBuilder(1).AddGate(H(0)).AddMeasure("m", 0).MustBuild()
	c := NewBuilder(1).AddLoop(body, MaxZeroSampling("m", 1)).MustBuild()

	for seed := range uint64(20) {
		ctx := c.Execute(ZeroState(1), WithSeed(seed))
		assert.EqualValues(t, 1, ctx.Zeros("m"), "seed %d", seed)
		assert.Equal(t, Outcome{Measured: true, Index: 0}, ctx.Outcome(), "seed %d", seed)
	}
}

func TestLoopSeesCountsFromBeforeIt(t *testing.T) {
	// The counter is already satisfied when the loop starts.
	body := NewBuilder(1).AddGate(X(0)).MustBuild()
	c := NewBuilder(1).
		AddMeasure("m", 0).
		AddLoop(body, MaxZeroSampling("m", 1)).
		MustBuild()

	ctx := c.Execute(ZeroState(1))
	assertAmplitudes(t, ctx, map[int]Complex{0: 1})
	assert.True(t, ctx.Outcome().Measured)
}

func TestNestedLoops(t *testing.T) {
	inner := NewBuilder(2).AddGate(X(1)).MustBuild()
	outer := NewBuilder(2).AddLoop(inner, MaxIteration(2)).AddGate(X(0)).MustBuild()
	c := NewBuilder(2).AddLoop(outer, MaxIteration(3)).MustBuild()

	ctx := c.Execute(ZeroState(2))
	// qubit 1 flipped 6 times, qubit 0 flipped 3 times
	assertAmplitudes(t, ctx, map[int]Complex{0b10: 1})
}

func TestLoopThreeQubits(t *testing.T) {
	computer := NewComputer(3)
	body, err := computer.NewBuilder().
		AddGate(H(0)).
		Add(CNot(1, 0)).
		Add(CNot(2, 1)).
		AddMeasure("q0", 1).
		Build()
	require.NoError(t, err)

	circuit, err := computer.NewBuilder().AddLoop(body, MaxZeroSampling("q0", 10)).Build()
	require.NoError(t, err)

	for seed := range uint64(5) {
		ctx := computer.Execute(circuit, computer.ZeroState(), WithSeed(seed))
		assert.EqualValues(t, 10, ctx.Zeros("q0"))
		out := ctx.Outcome()
		require.True(t, out.Measured)
		// the loop only stops right after qubit 1 read 0
		assert.Zero(t, out.Index&Mask(3, 1))
		assert.Equal(t, []string{"q0"}, ctx.IDs())
	}
}

func TestMaxQubitIndex(t *testing.T) {
	assert.EqualValues(t, 4, Toffoli(1, 4, 2).MaxQubitIndex())
	assert.EqualValues(t, 3, Swap(3, 0).Gate().MaxQubitIndex())
	assert.EqualValues(t, 2, Measure{ID: "m", Target: 2}.MaxQubitIndex())

	body := NewBuilder(5).AddGate(H(1)).MustBuild()
	assert.EqualValues(t, 4, Loop{Body: body, Until: Once()}.MaxQubitIndex())
}

func TestExecuteDoesNotTouchInitialState(t *testing.T) {
	initial := ZeroState(2)
	c := NewBuilder(2).AddGate(X(0)).AddMeasure("m", 1).MustBuild()
	c.Execute(initial)
	assert.True(t, initial.Equal(ZeroState(2), 0))
}

func TestExecuteQubitMismatchPanics(t *testing.T) {
	c := NewBuilder(2).AddGate(H(0)).MustBuild()
	assert.Panics(t, func() {
		c.Execute(ZeroState(3))
	})
}
