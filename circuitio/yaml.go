package circuitio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"qtermsim/sim"
)

// The YAML document mirrors the element tree:
//
//	qubits: 3
//	elements:
//	  - gate: {op: hadamard, targets: [0]}
//	  - loop:
//	      until: {kind: max_zero, id: q0, n: 10}
//	      elements:
//	        - measure: {id: q0, target: 1}
type document struct {
	Qubits   int          `yaml:"qubits"`
	Elements []elementDoc `yaml:"elements"`
}

type elementDoc struct {
	Gate    *gateDoc    `yaml:"gate,omitempty"`
	Measure *measureDoc `yaml:"measure,omitempty"`
	Loop    *loopDoc    `yaml:"loop,omitempty"`
}

type gateDoc struct {
	Op       string `yaml:"op"`
	Targets  []int  `yaml:"targets,flow"`
	Controls []int  `yaml:"controls,omitempty,flow"`
}

type measureDoc struct {
	ID     string `yaml:"id"`
	Target int    `yaml:"target"`
}

type loopDoc struct {
	Until    conditionDoc `yaml:"until"`
	Elements []elementDoc `yaml:"elements"`
}

type conditionDoc struct {
	Kind string        `yaml:"kind"`
	ID   string        `yaml:"id,omitempty"`
	N    uint32        `yaml:"n,omitempty"`
	Lhs  *conditionDoc `yaml:"lhs,omitempty"`
	Rhs  *conditionDoc `yaml:"rhs,omitempty"`
}

var conditionKinds = map[sim.ConditionKind]string{
	sim.CondOnce:            "once",
	sim.CondMaxIteration:    "max_iteration",
	sim.CondMaxZeroSampling: "max_zero",
	sim.CondMaxOneSampling:  "max_one",
	sim.CondOr:              "or",
	sim.CondAnd:             "and",
}

// MarshalYAML renders a circuit, loop bodies included.
func MarshalYAML(c sim.Circuit) ([]byte, error) {
	doc := document{
		Qubits:   int(c.QubitCount()),
		Elements: encodeElements(c.Elements()),
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeElements(elements []sim.Element) []elementDoc {
	docs := make([]elementDoc, 0, len(elements))
	for _, e := range elements {
		switch e := e.(type) {
		case sim.Gate:
			docs = append(docs, elementDoc{Gate: &gateDoc{
				Op:       e.Base.Op.String(),
				Targets:  ints(e.Base.Targets()),
				Controls: ints(e.Controls),
			}})
		case sim.Measure:
			docs = append(docs, elementDoc{Measure: &measureDoc{ID: e.ID, Target: int(e.Target)}})
		case sim.Loop:
			docs = append(docs, elementDoc{Loop: &loopDoc{
				Until:    encodeCondition(e.Until),
				Elements: encodeElements(e.Body.Elements()),
			}})
		}
	}
	return docs
}

func encodeCondition(s sim.StopCondition) conditionDoc {
	doc := conditionDoc{Kind: conditionKinds[s.Kind]}
	switch s.Kind {
	case sim.CondMaxIteration:
		doc.N = s.N
	case sim.CondMaxZeroSampling, sim.CondMaxOneSampling:
		doc.ID, doc.N = s.ID, s.N
	case sim.CondOr, sim.CondAnd:
		lhs, rhs := encodeCondition(*s.Lhs), encodeCondition(*s.Rhs)
		doc.Lhs, doc.Rhs = &lhs, &rhs
	}
	return doc
}

func ints(qubits []uint8) []int {
	if len(qubits) == 0 {
		return nil
	}
	out := make([]int, len(qubits))
	for i, q := range qubits {
		out[i] = int(q)
	}
	return out
}

// UnmarshalYAML decodes a document and builds it with sim.Builder, so the
// result has passed the same validation as a circuit built in code.
// Unknown keys are rejected.
func UnmarshalYAML(data []byte) (sim.Circuit, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return sim.Circuit{}, errors.New("empty circuit document")
		}
		return sim.Circuit{}, err
	}
	qubits, err := qubit(doc.Qubits)
	if err != nil {
		return sim.Circuit{}, fmt.Errorf("qubits: %w", err)
	}
	b := sim.NewBuilder(qubits)
	if err := addElements(b, doc.Elements, "elements"); err != nil {
		return sim.Circuit{}, err
	}
	return b.Build()
}

func addElements(b *sim.Builder, docs []elementDoc, path string) error {
	for i, doc := range docs {
		at := fmt.Sprintf("%s[%d]", path, i)
		set := 0
		for _, ok := range []bool{doc.Gate != nil, doc.Measure != nil, doc.Loop != nil} {
			if ok {
				set++
			}
		}
		if set != 1 {
			return fmt.Errorf("%s: %w", at, ErrInvalidElement)
		}

		switch {
		case doc.Gate != nil:
			g, err := decodeGate(*doc.Gate)
			if err != nil {
				return fmt.Errorf("%s: %w", at, err)
			}
			b.Add(g)
		case doc.Measure != nil:
			target, err := qubit(doc.Measure.Target)
			if err != nil {
				return fmt.Errorf("%s: %w", at, err)
			}
			b.AddMeasure(doc.Measure.ID, target)
		case doc.Loop != nil:
			until, err := decodeCondition(doc.Loop.Until)
			if err != nil {
				return fmt.Errorf("%s.loop.until: %w", at, err)
			}
			body := b.BeginLoop(until)
			if err := addElements(body, doc.Loop.Elements, at+".loop.elements"); err != nil {
				return err
			}
			body.End()
		}
	}
	return nil
}

func decodeGate(doc gateDoc) (sim.Gate, error) {
	op, err := sim.ParseGateOp(doc.Op)
	if err != nil {
		return sim.Gate{}, fmt.Errorf("%w: %w", ErrUnsupportedGate, err)
	}
	if len(doc.Targets) != op.Arity() {
		return sim.Gate{}, fmt.Errorf("%w: %s takes %d, got %d", ErrTargetCount, op, op.Arity(), len(doc.Targets))
	}
	targets, err := qubits(doc.Targets)
	if err != nil {
		return sim.Gate{}, err
	}
	controls, err := qubits(doc.Controls)
	if err != nil {
		return sim.Gate{}, err
	}
	base := sim.BaseGate{Op: op, Target: targets[0]}
	if op == sim.OpSwap {
		base.Target2 = targets[1]
	}
	return base.WithControls(controls...), nil
}

func decodeCondition(doc conditionDoc) (sim.StopCondition, error) {
	switch doc.Kind {
	case "once":
		return sim.Once(), nil
	case "max_iteration":
		return sim.MaxIteration(doc.N), nil
	case "max_zero", "max_one":
		if doc.ID == "" {
			return sim.StopCondition{}, fmt.Errorf("%w: %s needs an id", ErrInvalidCondition, doc.Kind)
		}
		if doc.Kind == "max_zero" {
			return sim.MaxZeroSampling(doc.ID, doc.N), nil
		}
		return sim.MaxOneSampling(doc.ID, doc.N), nil
	case "or", "and":
		if doc.Lhs == nil || doc.Rhs == nil {
			return sim.StopCondition{}, fmt.Errorf("%w: %s needs lhs and rhs", ErrInvalidCondition, doc.Kind)
		}
		lhs, err := decodeCondition(*doc.Lhs)
		if err != nil {
			return sim.StopCondition{}, err
		}
		rhs, err := decodeCondition(*doc.Rhs)
		if err != nil {
			return sim.StopCondition{}, err
		}
		if doc.Kind == "or" {
			return sim.Or(lhs, rhs), nil
		}
		return sim.And(lhs, rhs), nil
	}
	return sim.StopCondition{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidCondition, doc.Kind)
}

func qubit(q int) (uint8, error) {
	if q < 0 || q > 255 {
		return 0, fmt.Errorf("%w: %d", ErrQubitIndex, q)
	}
	return uint8(q), nil
}

func qubits(in []int) ([]uint8, error) {
	out := make([]uint8, 0, len(in))
	for _, q := range in {
		u, err := qubit(q)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
