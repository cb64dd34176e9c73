package sim

import (
	"maps"
	"slices"

	"go.uber.org/zap"
)

// ShotSummary aggregates repeated executions of one circuit.
type ShotSummary struct {
	Shots  int
	Counts map[string]MeasureCount
	// Outcomes histograms the collapsed basis index of shots that ended
	// right after a measurement.
	Outcomes map[int]int
	// Unmeasured counts shots whose final state was not a measurement result.
	Unmeasured int
}

// RunShots executes circuit shots times from the same initial state. All
// shots draw from one random source, so a seeded run is reproducible.
func RunShots(circuit Circuit, initial *State, shots int, opts ...ExecuteOption) ShotSummary {
	cfg := newExecuteConfig(opts)
	shared := []ExecuteOption{WithRandomSource(cfg.random), WithLogger(cfg.logger)}

	summary := ShotSummary{
		Shots:    shots,
		Counts:   make(map[string]MeasureCount),
		Outcomes: make(map[int]int),
	}
	for range shots {
		ctx := circuit.Execute(initial, shared...)
		for id, mc := range ctx.counts {
			total := summary.Counts[id]
			total.Zeros += mc.Zeros
			total.Ones += mc.Ones
			summary.Counts[id] = total
		}
		if out := ctx.Outcome(); out.Measured {
			summary.Outcomes[out.Index]++
		} else {
			summary.Unmeasured++
		}
	}
	cfg.logger.Debug("shots done", zap.Int("shots", shots), zap.Int("outcomes", len(summary.Outcomes)))
	return summary
}

// IDs returns the measurement ids seen across all shots, sorted.
func (s ShotSummary) IDs() []string {
	return slices.Sorted(maps.Keys(s.Counts))
}

// OutcomeIndices returns the histogram keys in ascending order.
func (s ShotSummary) OutcomeIndices() []int {
	return slices.Sorted(maps.Keys(s.Outcomes))
}
