// Command qdeck runs and converts state-vector quantum circuits.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"qtermsim/circuitio"
	"qtermsim/sim"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "log simulator events",
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log-file",
		Usage: "write logs to this file instead of stderr",
	}

	circuitFlag = &cli.StringFlag{
		Name:    "circuit",
		Aliases: []string{"c"},
		Usage:   "circuit file (.yaml, .yml or .qasm)",
	}
	demoFlag = &cli.StringFlag{
		Name:  "demo",
		Usage: "built-in circuit to use when no file is given",
	}
	stateFlag = &cli.StringFlag{
		Name:  "state",
		Usage: "initial state: zero, basis:I or uniform:I,J,...",
	}
	shotsFlag = &cli.IntFlag{
		Name:  "shots",
		Usage: "number of executions",
	}
	seedFlag = &cli.Uint64Flag{
		Name:  "seed",
		Usage: "seed for measurement sampling (0 for unseeded)",
	}
	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "output format: yaml or qasm",
		Value: "yaml",
	}
	outFlag = &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "output file (default stdout)",
	}

	sourceFlags = []cli.Flag{circuitFlag, demoFlag}
	runFlags    = append(append([]cli.Flag(nil), sourceFlags...), stateFlag, shotsFlag, seedFlag)
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "qdeck",
		Usage: "state-vector quantum circuit simulator with measurement-driven loops",
		Flags: []cli.Flag{configFlag, verboseFlag, logFileFlag},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "execute a circuit and print counts and the final state",
				Flags:  runFlags,
				Action: runAction,
			},
			{
				Name:   "view",
				Usage:  "open the interactive circuit viewer",
				Flags:  runFlags,
				Action: viewAction,
			},
			{
				Name:   "export",
				Usage:  "write a circuit as YAML or OpenQASM 2.0",
				Flags:  append(append([]cli.Flag(nil), sourceFlags...), formatFlag, outFlag),
				Action: exportAction,
			},
			{
				Name:   "demos",
				Usage:  "list the built-in circuits",
				Action: demosAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// prepare loads the configuration and installs the logger for a command.
func prepare(c *cli.Context) (Config, *zap.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return Config{}, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, logger, nil
}

// loadCircuit returns the circuit named by cfg and a label for it.
func loadCircuit(cfg Config) (string, sim.Circuit, error) {
	if cfg.Circuit != "" {
		c, err := circuitio.Load(cfg.Circuit)
		return cfg.Circuit, c, err
	}
	d, err := findDemo(cfg.Demo)
	if err != nil {
		return "", sim.Circuit{}, err
	}
	return d.name, d.build(), nil
}
