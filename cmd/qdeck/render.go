package main

import (
	"fmt"
	"slices"
	"strings"

	"qtermsim/sim"
)

// padCenter centres s within width, truncating when it does not fit.
func padCenter(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	total := width - len(r)
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

func opLabel(op sim.GateOp) string {
	switch op {
	case sim.OpNot:
		return "NOT"
	case sim.OpHadamard:
		return "H"
	}
	return strings.ToUpper(op.String())
}

// ──────────────────────────── Columns ────────────────────────────

type columnKind int

const (
	colGate columnKind = iota
	colMeasure
	colLoopOpen
	colLoopClose
)

// column is one vertical slice of the diagram. Loop bodies are inlined
// between an open and a close bracket column.
type column struct {
	kind    columnKind
	gate    sim.Gate
	measure sim.Measure
	loop    int // index into diagram.loops for bracket columns
	step    int // element number for gate and measure columns
}

func (c column) width() int {
	if c.kind == colLoopOpen || c.kind == colLoopClose {
		return bracketW
	}
	return cellW
}

type diagram struct {
	qubits  uint8
	columns []column
	loops   []sim.StopCondition
}

func newDiagram(c sim.Circuit) diagram {
	d := diagram{qubits: c.QubitCount()}
	d.add(c.Elements())
	return d
}

func (d *diagram) add(elements []sim.Element) {
	for _, e := range elements {
		switch e := e.(type) {
		case sim.Gate:
			d.columns = append(d.columns, column{kind: colGate, gate: e, step: d.steps()})
		case sim.Measure:
			d.columns = append(d.columns, column{kind: colMeasure, measure: e, step: d.steps()})
		case sim.Loop:
			n := len(d.loops)
			d.loops = append(d.loops, e.Until)
			d.columns = append(d.columns, column{kind: colLoopOpen, loop: n})
			d.add(e.Body.Elements())
			d.columns = append(d.columns, column{kind: colLoopClose, loop: n})
		}
	}
}

func (d *diagram) steps() int {
	n := 0
	for _, c := range d.columns {
		if c.kind == colGate || c.kind == colMeasure {
			n++
		}
	}
	return n
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellInfo struct {
	label     string // boxed gate name
	measure   bool
	symbol    string // control dot, CNOT target or swap cross
	pass      bool   // a multi-qubit gate's connector crosses this wire
	vertAbove bool
	vertBelow bool
}

func gateCell(g sim.Gate, qubit uint8) cellInfo {
	qs := g.Qubits()
	lo, hi := slices.Min(qs), slices.Max(qs)
	info := cellInfo{
		vertAbove: qubit > lo && qubit <= hi,
		vertBelow: qubit >= lo && qubit < hi,
	}
	switch {
	case slices.Contains(g.Controls, qubit):
		info.symbol = "●"
	case slices.Contains(g.Base.Targets(), qubit):
		switch {
		case g.Base.Op == sim.OpSwap:
			info.symbol = "×"
		case (g.Base.Op == sim.OpNot || g.Base.Op == sim.OpX) && len(g.Controls) > 0:
			info.symbol = "⊕"
		default:
			info.label = opLabel(g.Base.Op)
		}
	case qubit > lo && qubit < hi:
		info.pass = true
	default:
		return cellInfo{}
	}
	return info
}

func (c column) cell(qubit uint8) cellInfo {
	switch c.kind {
	case colGate:
		return gateCell(c.gate, qubit)
	case colMeasure:
		if c.measure.Target == qubit {
			return cellInfo{label: "M", measure: true}
		}
	}
	return cellInfo{}
}

// renderCell returns the three lines (top, mid, bot) of one gate or
// measurement cell, each cellW columns wide.
func renderCell(info cellInfo) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	vert := func(on bool) string {
		if on {
			return vertRow
		}
		return emptyRow
	}

	switch {
	case info.label != "":
		style := gateStyle
		if info.measure {
			style = measureStyle
		}
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		edge := func(left, join, right string, joined bool) string {
			inner := strings.Repeat("─", gateNameW)
			if joined {
				inner = strings.Repeat("─", gateNameW/2) + join + strings.Repeat("─", gateNameW-gateNameW/2-1)
			}
			return strings.Repeat(" ", margin) + style.Render(left+inner+right) + strings.Repeat(" ", rightMargin)
		}
		top = edge("┌", "┴", "┐", info.vertAbove)
		mid = strings.Repeat("─", margin) + style.Render("┤"+padCenter(info.label, gateNameW)+"├") + strings.Repeat("─", rightMargin)
		bot = edge("└", "┬", "┘", info.vertBelow)
	case info.symbol != "":
		top = vert(info.vertAbove)
		mid = strings.Repeat("─", dashL) + gateStyle.Render(info.symbol) + strings.Repeat("─", dashR)
		bot = vert(info.vertBelow)
	case info.pass:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow
	default:
		top = emptyRow
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
	}
	return
}

// renderBracket draws one qubit's slice of a loop bracket column.
func renderBracket(open bool, qubit, qubits uint8) (top, mid, bot string) {
	top, bot = " │ ", " │ "
	if qubit == 0 {
		top = " ┌─"
		if !open {
			top = "─┐ "
		}
	}
	if qubit == qubits-1 {
		bot = " └─"
		if !open {
			bot = "─┘ "
		}
	}
	return loopStyle.Render(top), "─" + loopStyle.Render("┼") + "─", loopStyle.Render(bot)
}

// ──────────────────────────── Diagram ────────────────────────────

// visible returns how many columns starting at start fit in width.
func (d diagram) visible(width, start int) int {
	used := labelVisualW
	n := 0
	for _, c := range d.columns[min(start, len(d.columns)):] {
		if used+c.width() > width {
			break
		}
		used += c.width()
		n++
	}
	return n
}

// render draws the columns that fit in width, beginning at column start,
// followed by the loop legend.
func (d diagram) render(width, start int) string {
	start = max(0, min(start, len(d.columns)))
	cols := d.columns[start : start+d.visible(width, start)]

	var sb strings.Builder
	if start > 0 {
		fmt.Fprintf(&sb, "  ◀ from column %d\n", start)
	}

	header := strings.Repeat(" ", labelVisualW)
	for _, c := range cols {
		switch c.kind {
		case colGate, colMeasure:
			header += dimStyle.Render(padCenter(fmt.Sprint(c.step), cellW))
		case colLoopOpen:
			header += loopStyle.Render(padCenter(fmt.Sprintf("L%d", c.loop+1), bracketW))
		default:
			header += strings.Repeat(" ", bracketW)
		}
	}
	sb.WriteString(header + "\n")

	for q := range d.qubits {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", q))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)
		for _, c := range cols {
			var top, mid, bot string
			switch c.kind {
			case colLoopOpen, colLoopClose:
				top, mid, bot = renderBracket(c.kind == colLoopOpen, q, d.qubits)
			default:
				top, mid, bot = renderCell(c.cell(q))
			}
			topLine += top
			midLine += mid
			botLine += bot
		}
		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	if rest := len(d.columns) - start - len(cols); rest > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  ▶ %d more columns", rest)) + "\n")
	}
	for i, until := range d.loops {
		fmt.Fprintf(&sb, "  %s until %s\n", loopStyle.Render(fmt.Sprintf("L%d", i+1)), until)
	}
	for _, c := range d.columns {
		if c.kind == colMeasure {
			fmt.Fprintf(&sb, "  %s step %d: q[%d] -> %s\n", measureStyle.Render("M"), c.step, c.measure.Target, c.measure.ID)
		}
	}
	return sb.String()
}
