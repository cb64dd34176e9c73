package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// Config is the persistent part of the command line. Values are layered:
// defaults, then the TOML file named by --config, then explicit flags.
type Config struct {
	Demo    string
	Circuit string
	State   string
	Shots   int
	// Seed 0 leaves sampling unseeded.
	Seed    uint64
	Verbose bool
	LogFile string
}

func defaultConfig() Config {
	return Config{
		Demo:  "bell",
		State: "zero",
		Shots: 1,
	}
}

// TOML keys are the Go field names; unknown keys are errors.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

func loadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	var lineErr *toml.LineError
	if errors.As(err, &lineErr) {
		err = errors.New(path + ", " + err.Error())
	}
	return err
}

// loadConfig merges the config file and the flags set on c.
func loadConfig(c *cli.Context) (Config, error) {
	cfg := defaultConfig()
	if path := c.String(configFlag.Name); path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if c.IsSet(demoFlag.Name) {
		cfg.Demo = c.String(demoFlag.Name)
		cfg.Circuit = ""
	}
	if c.IsSet(circuitFlag.Name) {
		cfg.Circuit = c.String(circuitFlag.Name)
	}
	if c.IsSet(stateFlag.Name) {
		cfg.State = c.String(stateFlag.Name)
	}
	if c.IsSet(shotsFlag.Name) {
		cfg.Shots = c.Int(shotsFlag.Name)
	}
	if c.IsSet(seedFlag.Name) {
		cfg.Seed = c.Uint64(seedFlag.Name)
	}
	if c.IsSet(verboseFlag.Name) {
		cfg.Verbose = c.Bool(verboseFlag.Name)
	}
	if c.IsSet(logFileFlag.Name) {
		cfg.LogFile = c.String(logFileFlag.Name)
	}
	if cfg.Shots < 1 {
		return Config{}, fmt.Errorf("shots must be at least 1, got %d", cfg.Shots)
	}
	return cfg, nil
}

// newLogger builds the process logger and installs it as zap's global, which
// is where the simulator looks by default. Quiet runs get a no-op logger.
func newLogger(cfg Config) (*zap.Logger, error) {
	if !cfg.Verbose {
		logger := zap.NewNop()
		zap.ReplaceGlobals(logger)
		return logger, nil
	}
	zc := zap.NewDevelopmentConfig()
	if cfg.LogFile != "" {
		zc.OutputPaths = []string{cfg.LogFile}
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
