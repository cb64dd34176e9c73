package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"qtermsim/circuitio"
	"qtermsim/sim"
)

// focus represents which panel has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusEditor
	focusMenu
)

// Model is the viewer state. The circuit is the source of truth; the YAML
// editor is re-synced from it and re-parsed into it when it loses focus.
type Model struct {
	cfg    Config
	logger *zap.Logger

	name    string
	circuit sim.Circuit
	initial *sim.State
	seed    uint64
	res     *result

	width     int
	height    int
	viewStart int // first diagram column shown
	editor    textarea.Model
	focus     focus
	lastYAML  string
	statusMsg string
	errMsg    string

	menuItem int
}

func newModel(cfg Config, logger *zap.Logger, name string, circuit sim.Circuit, initial *sim.State) Model {
	ta := textarea.New()
	ta.Placeholder = "Edit circuit YAML here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	seed := cfg.Seed
	if seed == 0 {
		seed = randomSeed()
	}
	m := Model{
		cfg:     cfg,
		logger:  logger,
		name:    name,
		circuit: circuit,
		initial: initial,
		seed:    seed,
		editor:  ta,
		focus:   focusCircuit,
	}
	m.syncEditor()
	m.run()
	return m
}

func viewAction(c *cli.Context) error {
	cfg, logger, err := prepare(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	name, circuit, err := loadCircuit(cfg)
	if err != nil {
		return err
	}
	initial, err := parseState(cfg.State, circuit.QubitCount())
	if err != nil {
		return err
	}
	p := tea.NewProgram(newModel(cfg, logger, name, circuit, initial), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func (m *Model) syncEditor() {
	data, err := circuitio.MarshalYAML(m.circuit)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.editor.SetValue(string(data))
	m.lastYAML = string(data)
}

// parseEditorInput rebuilds the circuit from the editor when its text
// changed. A document that does not build leaves the current circuit alone.
func (m *Model) parseEditorInput() {
	text := m.editor.Value()
	if text == m.lastYAML {
		return
	}
	m.lastYAML = text
	c, err := circuitio.UnmarshalYAML([]byte(text))
	if err != nil {
		m.errMsg = err.Error()
		m.logger.Debug("editor rejected", zap.Error(err))
		return
	}
	m.errMsg = ""
	if c.QubitCount() != m.circuit.QubitCount() {
		m.initial = sim.ZeroState(c.QubitCount())
	}
	m.circuit = c
	m.name = "edited"
	m.viewStart = 0
	m.run()
}

func (m *Model) loadDemo(d demo) {
	m.circuit = d.build()
	m.name = d.name
	initial, err := parseState(m.cfg.State, m.circuit.QubitCount())
	if err != nil {
		initial = sim.ZeroState(m.circuit.QubitCount())
	}
	m.initial = initial
	m.viewStart = 0
	m.errMsg = ""
	m.syncEditor()
	m.run()
}

func (m *Model) run() {
	res := simulate(m.circuit, m.initial, m.cfg.Shots, m.seed, m.logger)
	m.res = &res
	m.statusMsg = fmt.Sprintf("ran %s with seed %d", m.name, m.seed)
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(max(msg.Width/3-6, 20))
		m.editor.SetHeight(max(m.topHeight()-6, 4))

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			m.statusMsg = ""
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusEditor
				cmds = append(cmds, m.editor.Focus())
			case "r":
				m.run()
			case "n":
				m.seed = randomSeed()
				m.run()
			case "d":
				m.focus = focusMenu
				m.menuItem = demoIndex(m.name)
			case "left", "h":
				if m.viewStart > 0 {
					m.viewStart--
				}
			case "right", "l":
				if m.viewStart < len(newDiagram(m.circuit).columns)-1 {
					m.viewStart++
				}
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(demos)-1 {
					m.menuItem++
				}
			case "enter":
				m.loadDemo(demos[m.menuItem])
				m.focus = focusCircuit
			}

		case focusEditor:
			switch key {
			case "tab", "esc":
				m.editor.Blur()
				m.focus = focusCircuit
				m.parseEditorInput()
			default:
				var cmd tea.Cmd
				m.editor, cmd = m.editor.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// ──────────────────────────── View ────────────────────────────

func (m Model) topHeight() int {
	return max(m.height*3/5, 10)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	editorWidth := m.width / 3
	circuitWidth := m.width - editorWidth - 4
	controlsHeight := 4
	topHeight := m.topHeight()
	bottomHeight := max(m.height-topHeight-controlsHeight-4, 4)

	circuitPanel := m.renderCircuitPanel(circuitWidth, topHeight)
	editorPanel := m.renderEditorPanel(editorWidth, topHeight)

	var bottom string
	if m.focus == focusMenu {
		bottom = lipgloss.Place(m.width-4, bottomHeight, lipgloss.Left, lipgloss.Top, m.renderMenu())
	} else {
		bottom = m.renderResultsPanel(m.width-4, bottomHeight)
	}
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, editorPanel)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottom, controlsPanel)
}

func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	gates, measures, loops := 0, 0, 0
	m.circuit.Walk(func(e sim.Element, _ int) {
		switch e.(type) {
		case sim.Gate:
			gates++
		case sim.Measure:
			measures++
		case sim.Loop:
			loops++
		}
	})

	sb.WriteString(titleStyle.Render("Circuit " + m.name))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  %d qubits  %d gates  %d measures  %d loops",
		m.circuit.QubitCount(), gates, measures, loops)))
	sb.WriteString("\n\n")
	sb.WriteString(newDiagram(m.circuit).render(width-4, m.viewStart))

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

func (m Model) renderEditorPanel(width, height int) string {
	var sb strings.Builder

	title := "YAML Editor"
	if m.focus == focusEditor {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.editor.View())

	return editorStyle.Width(width).Height(height).Render(sb.String())
}

func (m Model) renderResultsPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Results"))
	fmt.Fprintf(&sb, "  seed %d  shots %d\n", m.seed, m.cfg.Shots)

	if m.errMsg != "" {
		sb.WriteString(errorStyle.Render(m.errMsg))
		sb.WriteString("\n")
	}
	if m.res == nil {
		return resultsStyle.Width(width).Height(height).Render(sb.String())
	}

	summary := m.res.summary
	for _, id := range summary.IDs() {
		mc := summary.Counts[id]
		fmt.Fprintf(&sb, "%s  zeros %d  ones %d\n", activeStyle.Render(fmt.Sprintf("%-8s", id)), mc.Zeros, mc.Ones)
	}

	state := m.res.sample.State()
	if len(summary.Outcomes) > 0 {
		sb.WriteString(dimStyle.Render("outcomes "))
		for _, index := range summary.OutcomeIndices() {
			fmt.Fprintf(&sb, " %s:%d", state.Ket(index), summary.Outcomes[index])
		}
		if summary.Unmeasured > 0 {
			fmt.Fprintf(&sb, " unmeasured:%d", summary.Unmeasured)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(dimStyle.Render("sample state"))
	sb.WriteString("\n")
	for _, e := range state.BasisStates(displayThreshold) {
		fmt.Fprintf(&sb, "  %s %s %.4f  (%+.4f%+.4fi)\n",
			state.Ket(e.Index), bar(e.Probability), e.Probability, real(e.Amplitude), imag(e.Amplitude))
	}
	for q, p := range state.QubitProbabilities() {
		fmt.Fprintf(&sb, "  %s P(1) %s %.4f\n", qubitLabelStyle.Render(fmt.Sprintf("q[%d]", q)), bar(p.Prob1), p.Prob1)
	}

	return resultsStyle.Width(width).Height(height).Render(sb.String())
}

// bar draws p in [0, 1] as a fixed-width gauge.
func bar(p float64) string {
	n := int(p*barW + 0.5)
	n = max(0, min(n, barW))
	return barStyle.Render(strings.Repeat("█", n)) + dimStyle.Render(strings.Repeat("░", barW-n))
}

func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeStyle.Render("Keys: "))
	sb.WriteString("r Run  n New seed  d Demos  ←→/hl Scroll  Tab Editor  q/^C Quit")
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "\n%s", dimStyle.Render(m.statusMsg))
	}

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}
