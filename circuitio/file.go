// Package circuitio converts circuits to and from YAML and OpenQASM 2.0.
package circuitio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"qtermsim/sim"
)

// Format names a circuit file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatQASM Format = "qasm"
)

// ParseFormat accepts yaml, yml or qasm in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "qasm":
		return FormatQASM, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Decode parses data in the given format.
func Decode(format Format, data []byte) (sim.Circuit, error) {
	switch format {
	case FormatYAML:
		return UnmarshalYAML(data)
	case FormatQASM:
		return ParseQASM(string(data))
	}
	return sim.Circuit{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Encode writes c in the given format.
func Encode(format Format, c sim.Circuit) ([]byte, error) {
	switch format {
	case FormatYAML:
		return MarshalYAML(c)
	case FormatQASM:
		s, err := ToQASM(c)
		return []byte(s), err
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Load reads a circuit file, choosing the decoder by extension.
func Load(path string) (sim.Circuit, error) {
	format, err := FormatOf(path)
	if err != nil {
		return sim.Circuit{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Circuit{}, err
	}
	c, err := Decode(format, data)
	if err != nil {
		return sim.Circuit{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
