package main

import (
	"fmt"
	"strconv"
	"strings"

	"qtermsim/sim"
)

type demo struct {
	name        string
	description string
	build       func() sim.Circuit
}

var demos = []demo{
	{
		name:        "bell",
		description: "Bell pair, both qubits measured",
		build: func() sim.Circuit {
			return sim.NewComputer(2).BellState().
				AddMeasure("a", 0).
				AddMeasure("b", 1).
				MustBuild()
		},
	},
	{
		name:        "ghz",
		description: "three qubit GHZ state",
		build: func() sim.Circuit {
			return sim.NewComputer(3).BellState().MustBuild()
		},
	},
	{
		name:        "toffoli",
		description: "Toffoli on |110>",
		build: func() sim.Circuit {
			return sim.NewBuilder(3).
				AddGate(sim.X(0)).
				AddGate(sim.X(1)).
				Add(sim.Toffoli(2, 0, 1)).
				MustBuild()
		},
	},
	{
		name:        "fredkin",
		description: "controlled swap moving a superposition",
		build: func() sim.Circuit {
			return sim.NewBuilder(3).
				AddGate(sim.X(0)).
				AddGate(sim.H(1)).
				Add(sim.Fredkin(1, 2, 0)).
				MustBuild()
		},
	},
	{
		name:        "loop3",
		description: "entangle and measure qubit 1 until it read 0 ten times",
		build: func() sim.Circuit {
			computer := sim.NewComputer(3)
			body := computer.NewBuilder().
				AddGate(sim.H(0)).
				Add(sim.CNot(1, 0)).
				Add(sim.CNot(2, 1)).
				AddMeasure("q0", 1).
				MustBuild()
			return computer.NewBuilder().
				AddLoop(body, sim.MaxZeroSampling("q0", 10)).
				MustBuild()
		},
	},
	{
		name:        "coin",
		description: "flip a coin until three heads or twenty tosses",
		build: func() sim.Circuit {
			return sim.NewBuilder(1).
				BeginLoop(sim.Or(sim.MaxOneSampling("coin", 3), sim.MaxIteration(20))).
				AddGate(sim.H(0)).
				AddMeasure("coin", 0).
				End().
				MustBuild()
		},
	},
}

func findDemo(name string) (demo, error) {
	for _, d := range demos {
		if d.name == name {
			return d, nil
		}
	}
	names := make([]string, len(demos))
	for i, d := range demos {
		names[i] = d.name
	}
	return demo{}, fmt.Errorf("unknown demo %q (have %s)", name, strings.Join(names, ", "))
}

// parseState understands "zero", "basis:I" and "uniform:I,J,...".
func parseState(text string, qubits uint8) (*sim.State, error) {
	kind, args, _ := strings.Cut(text, ":")
	switch kind {
	case "", "zero":
		return sim.ZeroState(qubits), nil
	case "basis":
		i, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", text, err)
		}
		if i < 0 || i >= 1<<qubits {
			return nil, fmt.Errorf("state %q: %w: %d", text, sim.ErrBasisIndexOutOfRange, i)
		}
		return sim.BasisState(qubits, i), nil
	case "uniform":
		var indices []int
		for _, f := range strings.Split(args, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			i, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("state %q: %w", text, err)
			}
			indices = append(indices, i)
		}
		s, err := sim.UniformState(qubits, indices...)
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", text, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown state %q", text)
}
