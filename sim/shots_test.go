package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunShots(t *testing.T) {
	coin := NewBuilder(1).AddGate(H(0)).AddMeasure("c", 0).MustBuild()

	summary := RunShots(coin, ZeroState(1), 2000, WithSeed(9))
	count := summary.Counts["c"]
	assert.EqualValues(t, 2000, count.Total())
	assert.InDelta(t, 1000, float64(count.Zeros), 150)
	assert.Equal(t, 2000, summary.Outcomes[0]+summary.Outcomes[1])
	assert.Zero(t, summary.Unmeasured)
	assert.Equal(t, []string{"c"}, summary.IDs())
	assert.Equal(t, []int{0, 1}, summary.OutcomeIndices())

	again := RunShots(coin, ZeroState(1), 2000, WithSeed(9))
	assert.Equal(t, summary, again)
}

func TestRunShotsUnmeasured(t *testing.T) {
	c := NewBuilder(2).AddMeasure("m", 0).AddGate(H(1)).MustBuild()
	summary := RunShots(c, ZeroState(2), 10)
	assert.Equal(t, 10, summary.Unmeasured)
	assert.Empty(t, summary.Outcomes)
	assert.EqualValues(t, 10, summary.Counts["m"].Zeros)
}
