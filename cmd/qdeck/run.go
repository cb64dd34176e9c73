package main

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"qtermsim/circuitio"
	"qtermsim/sim"
)

// displayThreshold hides basis states with negligible probability.
const displayThreshold = 1e-9

type result struct {
	summary sim.ShotSummary
	// sample is one more execution drawn after the shots, shown as the final state.
	sample *sim.ExecutionContext
}

func simulate(circuit sim.Circuit, initial *sim.State, shots int, seed uint64, logger *zap.Logger) result {
	var src sim.RandomSource
	if seed != 0 {
		src = sim.NewSeededSource(seed)
	} else {
		src = sim.NewSeededSource(randomSeed())
	}
	opts := []sim.ExecuteOption{sim.WithRandomSource(src), sim.WithLogger(logger)}
	return result{
		summary: sim.RunShots(circuit, initial, shots, opts...),
		sample:  circuit.Execute(initial, opts...),
	}
}

// randomSeed picks a fresh nonzero seed for unseeded runs.
func randomSeed() uint64 {
	return rand.Uint64() | 1
}

func runAction(c *cli.Context) error {
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
	logger.Info("running", zap.String("circuit", name), zap.Int("shots", cfg.Shots), zap.Uint64("seed", cfg.Seed))

	res := simulate(circuit, initial, cfg.Shots, cfg.Seed, logger)
	writeReport(c.App.Writer, name, circuit, res)
	return nil
}

func writeReport(w io.Writer, name string, circuit sim.Circuit, res result) {
	fmt.Fprintf(w, "circuit %s: %d qubits, %d elements, %d shots\n\n", name, circuit.QubitCount(), circuit.Len(), res.summary.Shots)

	if ids := res.summary.IDs(); len(ids) > 0 {
		writeCountsTable(w, res.summary)
		fmt.Fprintln(w)
	}
	if len(res.summary.Outcomes) > 0 {
		writeOutcomesTable(w, res.sample.State(), res.summary)
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "final state of a sample run:")
	writeStateTable(w, res.sample.State())
	fmt.Fprintln(w)
	writeQubitTable(w, res.sample.State())
}

func writeCountsTable(w io.Writer, summary sim.ShotSummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Zeros", "Ones", "Total"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, id := range summary.IDs() {
		mc := summary.Counts[id]
		table.Append([]string{id, fmtUint(mc.Zeros), fmtUint(mc.Ones), fmtUint(mc.Total())})
	}
	table.Render()
}

// writeOutcomesTable lists where measured shots collapsed. ref only supplies
// the register width for the kets.
func writeOutcomesTable(w io.Writer, ref *sim.State, summary sim.ShotSummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Outcome", "Count", "Frequency"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, index := range summary.OutcomeIndices() {
		n := summary.Outcomes[index]
		table.Append([]string{ref.Ket(index), strconv.Itoa(n), fmtFloat(float64(n) / float64(summary.Shots))})
	}
	if summary.Unmeasured > 0 {
		table.Append([]string{"unmeasured", strconv.Itoa(summary.Unmeasured), fmtFloat(float64(summary.Unmeasured) / float64(summary.Shots))})
	}
	table.Render()
}

func writeStateTable(w io.Writer, state *sim.State) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Basis", "Amplitude", "Probability", "Phase"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, e := range state.BasisStates(displayThreshold) {
		table.Append([]string{
			state.Ket(e.Index),
			fmt.Sprintf("%.6f%+.6fi", real(e.Amplitude), imag(e.Amplitude)),
			fmtFloat(e.Probability),
			fmt.Sprintf("%.3fπ", e.Phase/math.Pi),
		})
	}
	table.Render()
}

func writeQubitTable(w io.Writer, state *sim.State) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Qubit", "P(0)", "P(1)"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for q, p := range state.QubitProbabilities() {
		table.Append([]string{strconv.Itoa(q), fmtFloat(p.Prob0), fmtFloat(p.Prob1)})
	}
	table.Render()
}

func fmtUint(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func exportAction(c *cli.Context) error {
	cfg, logger, err := prepare(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	format, err := circuitio.ParseFormat(c.String(formatFlag.Name))
	if err != nil {
		return err
	}
	name, circuit, err := loadCircuit(cfg)
	if err != nil {
		return err
	}
	data, err := circuitio.Encode(format, circuit)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	out := c.String(outFlag.Name)
	if out == "" {
		_, err = c.App.Writer.Write(data)
		return err
	}
	logger.Info("exporting", zap.String("circuit", name), zap.String("format", string(format)), zap.String("path", out))
	return os.WriteFile(out, data, 0o644)
}

func demosAction(c *cli.Context) error {
	table := tablewriter.NewWriter(c.App.Writer)
	table.SetHeader([]string{"Name", "Qubits", "Description"})
	for _, d := range demos {
		table.Append([]string{d.name, strconv.Itoa(int(d.build().QubitCount())), d.description})
	}
	table.Render()
	return nil
}
