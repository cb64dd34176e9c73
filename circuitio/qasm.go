package circuitio

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"qtermsim/sim"
)

var (
	gateLineRegex = regexp.MustCompile(`^(\w+)\s+(q\[\d+\](?:\s*,\s*q\[\d+\])*)\s*;?$`)
	operandRegex  = regexp.MustCompile(`q\[(\d+)\]`)
	measureRegex  = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*(\w+)\[0\]\s*;?$`)
	qregRegex     = regexp.MustCompile(`^qreg\s+q\[(\d+)\]\s*;?$`)
	registerRegex = regexp.MustCompile(`^[a-z][A-Za-z0-9_]*$`)
)

// qasmName maps an op and its control count to the qelib1 gate name.
func qasmName(op sim.GateOp, controls int) (string, bool) {
	switch controls {
	case 0:
		switch op {
		case sim.OpNot, sim.OpX:
			return "x", true
		case sim.OpY:
			return "y", true
		case sim.OpZ:
			return "z", true
		case sim.OpHadamard:
			return "h", true
		case sim.OpSwap:
			return "swap", true
		}
	case 1:
		switch op {
		case sim.OpNot, sim.OpX:
			return "cx", true
		case sim.OpY:
			return "cy", true
		case sim.OpZ:
			return "cz", true
		case sim.OpHadamard:
			return "ch", true
		case sim.OpSwap:
			return "cswap", true
		}
	case 2:
		if op == sim.OpNot || op == sim.OpX {
			return "ccx", true
		}
	}
	return "", false
}

// qasmGates is the inverse of qasmName. The controlled X family decodes to
// Not so that cx and ccx read back as CNot and Toffoli.
var qasmGates = map[string]struct {
	op       sim.GateOp
	controls int
}{
	"x":     {sim.OpX, 0},
	"y":     {sim.OpY, 0},
	"z":     {sim.OpZ, 0},
	"h":     {sim.OpHadamard, 0},
	"swap":  {sim.OpSwap, 0},
	"cx":    {sim.OpNot, 1},
	"cy":    {sim.OpY, 1},
	"cz":    {sim.OpZ, 1},
	"ch":    {sim.OpHadamard, 1},
	"cswap": {sim.OpSwap, 1},
	"ccx":   {sim.OpNot, 2},
}

// ToQASM renders a loop-free circuit as OpenQASM 2.0. Every measurement id
// gets its own one-bit classical register.
func ToQASM(c sim.Circuit) (string, error) {
	var ids []string
	seen := make(map[string]bool)
	var body strings.Builder

	for i, e := range c.Elements() {
		switch e := e.(type) {
		case sim.Gate:
			name, ok := qasmName(e.Base.Op, len(e.Controls))
			if !ok {
				return "", fmt.Errorf("elements[%d]: %w: %s", i, ErrUnsupportedGate, e)
			}
			operands := make([]string, 0, len(e.Controls)+2)
			for _, q := range append(append([]uint8(nil), e.Controls...), e.Base.Targets()...) {
				operands = append(operands, fmt.Sprintf("q[%d]", q))
			}
			fmt.Fprintf(&body, "%s %s;\n", name, strings.Join(operands, ", "))
		case sim.Measure:
			if !registerRegex.MatchString(e.ID) || e.ID == "q" {
				return "", fmt.Errorf("elements[%d]: %w: %q", i, ErrInvalidIdentifier, e.ID)
			}
			if !seen[e.ID] {
				seen[e.ID] = true
				ids = append(ids, e.ID)
			}
			fmt.Fprintf(&body, "measure q[%d] -> %s[0];\n", e.Target, e.ID)
		case sim.Loop:
			return "", fmt.Errorf("elements[%d]: %w", i, ErrLoopNotExpressible)
		}
	}

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.QubitCount())
	for _, id := range ids {
		fmt.Fprintf(&sb, "creg %s[1];\n", id)
	}
	sb.WriteString("\n")
	sb.WriteString(body.String())
	return sb.String(), nil
}

// ParseQASM reads the subset of OpenQASM 2.0 written by ToQASM. Comments,
// include, creg and barrier lines are ignored.
func ParseQASM(qasm string) (sim.Circuit, error) {
	var b *sim.Builder

	for n, line := range strings.Split(qasm, "\n") {
		lineNo := n + 1
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" ||
			strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") ||
			strings.HasPrefix(line, "barrier") {
			continue
		}

		if strings.HasPrefix(line, "qreg") {
			m := qregRegex.FindStringSubmatch(line)
			if m == nil {
				return sim.Circuit{}, malformed(lineNo, line)
			}
			count, err := strconv.Atoi(m[1])
			if err != nil || count > 255 {
				return sim.Circuit{}, fmt.Errorf("line %d: %w: %s", lineNo, ErrQubitIndex, m[1])
			}
			b = sim.NewBuilder(uint8(count))
			continue
		}
		if b == nil {
			return sim.Circuit{}, fmt.Errorf("line %d: %w", lineNo, ErrMissingQreg)
		}

		if m := measureRegex.FindStringSubmatch(line); m != nil {
			target, err := operand(m[1])
			if err != nil {
				return sim.Circuit{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			b.AddMeasure(m[2], target)
			continue
		}

		m := gateLineRegex.FindStringSubmatch(line)
		if m == nil {
			return sim.Circuit{}, malformed(lineNo, line)
		}
		name := strings.ToLower(m[1])
		def, ok := qasmGates[name]
		if !ok {
			return sim.Circuit{}, fmt.Errorf("line %d: %w: %s", lineNo, ErrUnsupportedGate, name)
		}
		var qs []uint8
		for _, om := range operandRegex.FindAllStringSubmatch(m[2], -1) {
			q, err := operand(om[1])
			if err != nil {
				return sim.Circuit{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			qs = append(qs, q)
		}
		if len(qs) != def.controls+def.op.Arity() {
			return sim.Circuit{}, malformed(lineNo, line)
		}
		base := sim.BaseGate{Op: def.op, Target: qs[def.controls]}
		if def.op == sim.OpSwap {
			base.Target2 = qs[def.controls+1]
		}
		b.AddGate(base, qs[:def.controls]...)
	}

	if b == nil {
		return sim.Circuit{}, ErrMissingQreg
	}
	return b.Build()
}

func operand(s string) (uint8, error) {
	q, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return qubit(q)
}

func malformed(lineNo int, line string) error {
	return fmt.Errorf("line %d: %w: %q", lineNo, ErrMalformedLine, line)
}
