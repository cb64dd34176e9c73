package circuitio

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"qtermsim/sim"
)

func loopCircuit() sim.Circuit {
	return sim.NewBuilder(3).
		AddGate(sim.X(2)).
		BeginLoop(sim.Or(sim.MaxZeroSampling("q0", 10), sim.And(sim.Once(), sim.MaxOneSampling("q1", 2)))).
		AddGate(sim.H(0)).
		Add(sim.CNot(1, 0)).
		Add(sim.Toffoli(2, 0, 1)).
		AddGate(sim.Swap(0, 2), 1).
		AddMeasure("q0", 1).
		BeginLoop(sim.MaxIteration(2)).AddGate(sim.Not(0)).End().
		End().
		AddGate(sim.Y(1)).
		AddGate(sim.Z(0), 2).
		MustBuild()
}

func TestYAMLRoundTrip(t *testing.T) {
	Convey("Given a circuit with nested loops", t, func() {
		c := loopCircuit()

		Convey("Marshalling it", func() {
			data, err := MarshalYAML(c)
			So(err, ShouldBeNil)

			text := string(data)
			So(text, ShouldContainSubstring, "qubits: 3")
			So(text, ShouldContainSubstring, "op: hadamard")
			So(text, ShouldContainSubstring, "targets: [0, 2]")
			So(text, ShouldContainSubstring, "kind: max_zero")
			So(text, ShouldContainSubstring, "op: not")

			Convey("Should decode back to the same circuit", func() {
				back, err := UnmarshalYAML(data)
				So(err, ShouldBeNil)
				So(back, ShouldResemble, c)
			})
		})
	})
}

func TestYAMLDecode(t *testing.T) {
	Convey("Given a hand written document", t, func() {
		doc := `
qubits: 3
elements:
  - loop:
      until: {kind: max_zero, id: q0, n: 10}
      elements:
        - gate: {op: h, targets: [0]}
        - gate: {op: not, targets: [1], controls: [0]}
        - gate: {op: not, targets: [2], controls: [1]}
        - measure: {id: q0, target: 1}
`
		c, err := UnmarshalYAML([]byte(doc))
		So(err, ShouldBeNil)
		So(c.QubitCount(), ShouldEqual, uint8(3))
		So(c.Len(), ShouldEqual, 1)

		Convey("Executing it should stop after ten zeros", func() {
			ctx := c.Execute(sim.ZeroState(3), sim.WithSeed(4))
			So(ctx.Zeros("q0"), ShouldEqual, uint32(10))
		})
	})

	Convey("Given invalid documents", t, func() {
		cases := []struct {
			name string
			doc  string
			want error
		}{
			{"unknown gate", "qubits: 1\nelements:\n  - gate: {op: t, targets: [0]}\n", ErrUnsupportedGate},
			{"two kinds in one element", "qubits: 1\nelements:\n  - gate: {op: h, targets: [0]}\n    measure: {id: m, target: 0}\n", ErrInvalidElement},
			{"swap with one target", "qubits: 2\nelements:\n  - gate: {op: swap, targets: [0]}\n", ErrTargetCount},
			{"negative qubit", "qubits: 2\nelements:\n  - measure: {id: m, target: -1}\n", ErrQubitIndex},
			{"unknown condition", "qubits: 1\nelements:\n  - loop:\n      until: {kind: forever}\n", ErrInvalidCondition},
			{"or without rhs", "qubits: 1\nelements:\n  - loop:\n      until: {kind: or, lhs: {kind: once}}\n", ErrInvalidCondition},
			{"out of range inside loop", "qubits: 2\nelements:\n  - loop:\n      until: {kind: once}\n      elements:\n        - gate: {op: x, targets: [2]}\n", sim.ErrQubitOutOfRange},
			{"duplicate qubit", "qubits: 2\nelements:\n  - gate: {op: x, targets: [1], controls: [1]}\n", sim.ErrDuplicateQubit},
			{"no qubits", "qubits: 0\nelements: []\n", sim.ErrNoQubits},
			{"register too large", "qubits: 64\nelements:\n  - gate: {op: h, targets: [0]}\n", sim.ErrTooManyQubits},
		}
		for _, tc := range cases {
			Convey("Should reject "+tc.name, func() {
				_, err := UnmarshalYAML([]byte(tc.doc))
				So(errors.Is(err, tc.want), ShouldBeTrue)
			})
		}

		Convey("Should report where a nested problem is", func() {
			_, err := UnmarshalYAML([]byte("qubits: 2\nelements:\n  - loop:\n      until: {kind: once}\n      elements:\n        - gate: {op: x, targets: [2]}\n"))
			So(err.Error(), ShouldStartWith, "elements[0].loop.elements[0]:")
		})

		Convey("Should reject unknown keys", func() {
			_, err := UnmarshalYAML([]byte("qubits: 1\nshots: 4\n"))
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject an empty document", func() {
			_, err := UnmarshalYAML(nil)
			So(err, ShouldNotBeNil)
		})
	})
}
