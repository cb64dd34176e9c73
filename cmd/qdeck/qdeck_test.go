package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"qtermsim/circuitio"
	"qtermsim/sim"
)

func TestParseState(t *testing.T) {
	s, err := parseState("uniform:0, 3", 2)
	if err != nil {
		t.Fatalf("parseState error: %v", err)
	}
	if p := s.Probabilities(); p[0] < 0.49 || p[3] < 0.49 {
		t.Errorf("expected half the weight on |00> and |11>, got %v", p)
	}

	s, err = parseState("basis:5", 3)
	if err != nil {
		t.Fatalf("parseState error: %v", err)
	}
	if s.Amplitude(5) != 1 {
		t.Errorf("expected amplitude 1 at index 5, got %v", s.Amplitude(5))
	}

	for _, bad := range []string{"basis:8", "uniform:", "uniform:x", "ghost"} {
		if _, err := parseState(bad, 3); err == nil {
			t.Errorf("parseState(%q): expected error", bad)
		}
	}
	if _, err := parseState("basis:9", 3); !errors.Is(err, sim.ErrBasisIndexOutOfRange) {
		t.Errorf("expected ErrBasisIndexOutOfRange, got %v", err)
	}
}

func TestDemos(t *testing.T) {
	for _, d := range demos {
		c := d.build()
		if c.Len() == 0 {
			t.Errorf("demo %s is empty", d.name)
		}
	}

	loop3, err := findDemo("loop3")
	if err != nil {
		t.Fatal(err)
	}
	for seed := uint64(1); seed <= 5; seed++ {
		ctx := loop3.build().Execute(sim.ZeroState(3), sim.WithSeed(seed))
		if ctx.Zeros("q0") != 10 {
			t.Errorf("seed %d: expected 10 zeros, got %d", seed, ctx.Zeros("q0"))
		}
	}

	coin, _ := findDemo("coin")
	for seed := uint64(1); seed <= 20; seed++ {
		ctx := coin.build().Execute(sim.ZeroState(1), sim.WithSeed(seed))
		mc := ctx.Count("coin")
		if mc.Ones != 3 && mc.Total() != 20 {
			t.Errorf("seed %d: coin stopped early: %+v", seed, mc)
		}
	}

	if _, err := findDemo("nope"); err == nil {
		t.Error("expected unknown demo error")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qdeck.toml")
	if err := os.WriteFile(path, []byte("Demo = \"ghz\"\nShots = 25\nSeed = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := defaultConfig()
	if err := loadConfigFile(path, &cfg); err != nil {
		t.Fatalf("loadConfigFile error: %v", err)
	}
	if cfg.Demo != "ghz" || cfg.Shots != 25 || cfg.Seed != 7 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.State != "zero" {
		t.Errorf("default State lost, got %q", cfg.State)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("Colour = \"red\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := loadConfigFile(bad, &cfg); err == nil || !strings.Contains(err.Error(), "not defined") {
		t.Errorf("expected unknown field error, got %v", err)
	}
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run(append([]string{"qdeck"}, args...))
	return buf.String(), err
}

func TestRunCommand(t *testing.T) {
	out, err := runApp(t, "run", "--demo", "bell", "--shots", "200", "--seed", "3")
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	for _, want := range []string{"circuit bell: 2 qubits", "ZEROS", "|00>", "|11>", "P(1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "|01>") || strings.Contains(out, "|10>") {
		t.Errorf("Bell pair produced an odd-parity outcome:\n%s", out)
	}

	if _, err := runApp(t, "run", "--demo", "bell", "--shots", "0"); err == nil {
		t.Error("expected error for zero shots")
	}
	if _, err := runApp(t, "run", "--demo", "ghz", "--state", "basis:99"); err == nil {
		t.Error("expected error for out of range basis state")
	}
}

func TestExportCommand(t *testing.T) {
	out, err := runApp(t, "export", "--demo", "bell", "--format", "qasm")
	if err != nil {
		t.Fatalf("export error: %v", err)
	}
	if !strings.Contains(out, "cx q[0], q[1];") || !strings.Contains(out, "creg a[1];") {
		t.Errorf("unexpected QASM:\n%s", out)
	}

	_, err = runApp(t, "export", "--demo", "loop3", "--format", "qasm")
	if !errors.Is(err, circuitio.ErrLoopNotExpressible) {
		t.Errorf("expected ErrLoopNotExpressible, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "loop3.yaml")
	if _, err := runApp(t, "export", "--demo", "loop3", "--out", path); err != nil {
		t.Fatalf("export error: %v", err)
	}
	out, err = runApp(t, "run", "--circuit", path, "--seed", "1")
	if err != nil {
		t.Fatalf("run from file error: %v", err)
	}
	if !strings.Contains(out, "q0") {
		t.Errorf("expected q0 counts in output:\n%s", out)
	}
}

func TestDiagram(t *testing.T) {
	toffoli, _ := findDemo("toffoli")
	out := newDiagram(toffoli.build()).render(200, 0)
	for _, want := range []string{"q[0]", "q[2]", "●", "⊕", "X"} {
		if !strings.Contains(out, want) {
			t.Errorf("toffoli diagram missing %q:\n%s", want, out)
		}
	}

	loop3, _ := findDemo("loop3")
	d := newDiagram(loop3.build())
	if len(d.columns) != 6 || len(d.loops) != 1 {
		t.Fatalf("expected 6 columns and 1 loop, got %d and %d", len(d.columns), len(d.loops))
	}
	out = d.render(200, 0)
	for _, want := range []string{"L1", "until zeros(q0)>=10", "q[1] -> q0"} {
		if !strings.Contains(out, want) {
			t.Errorf("loop diagram missing %q:\n%s", want, out)
		}
	}

	narrow := d.render(labelVisualW+bracketW+cellW, 0)
	if !strings.Contains(narrow, "4 more columns") {
		t.Errorf("expected truncation marker:\n%s", narrow)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := defaultConfig()
	cfg.Shots = 10
	cfg.Seed = 42
	d, _ := findDemo("bell")
	return newModel(cfg, zap.NewNop(), d.name, d.build(), sim.ZeroState(2))
}

func TestModelDemoMenu(t *testing.T) {
	m := testModel(t)
	if m.res == nil || m.res.summary.Shots != 10 {
		t.Fatalf("expected an initial run of 10 shots")
	}

	m = press(m, "d")
	if m.focus != focusMenu || m.menuItem != demoIndex("bell") {
		t.Fatalf("expected menu on bell, got focus %d item %d", m.focus, m.menuItem)
	}
	m = press(m, "down", "enter")
	if m.focus != focusCircuit || m.name != demos[1].name {
		t.Errorf("expected %s loaded, got %s", demos[1].name, m.name)
	}
	if m.circuit.QubitCount() != m.initial.QubitCount() {
		t.Errorf("initial state has %d qubits for a %d qubit circuit", m.initial.QubitCount(), m.circuit.QubitCount())
	}
	if !strings.Contains(m.lastYAML, "qubits: 3") {
		t.Errorf("editor not synced:\n%s", m.lastYAML)
	}
}

func TestModelReseed(t *testing.T) {
	m := testModel(t)
	before := m.seed
	m = press(m, "r")
	if m.seed != before {
		t.Errorf("r changed the seed")
	}
	m = press(m, "n")
	if m.seed == before {
		t.Errorf("n kept the seed %d", before)
	}
}

func TestModelEditor(t *testing.T) {
	m := testModel(t)
	m = press(m, "tab")
	if m.focus != focusEditor {
		t.Fatalf("expected editor focus")
	}

	m.editor.SetValue("qubits: 2\nelements:\n  - gate: {op: h, targets: [5]}\n")
	m = press(m, "tab")
	if m.errMsg == "" {
		t.Errorf("expected a validation error")
	}
	if m.name != "bell" {
		t.Errorf("invalid edit replaced the circuit")
	}

	m = press(m, "tab")
	m.editor.SetValue("qubits: 1\nelements:\n  - gate: {op: x, targets: [0]}\n  - measure: {id: m, target: 0}\n")
	m = press(m, "tab")
	if m.errMsg != "" {
		t.Fatalf("unexpected error %s", m.errMsg)
	}
	if m.circuit.QubitCount() != 1 || m.initial.QubitCount() != 1 {
		t.Errorf("expected a 1 qubit circuit and state")
	}
	if mc := m.res.summary.Counts["m"]; mc.Ones != 10 {
		t.Errorf("expected 10 ones, got %+v", mc)
	}
}

func TestModelView(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 50})
	m = next.(Model)
	view := m.View()
	for _, want := range []string{"Circuit bell", "YAML Editor", "Results", "seed 42"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
