package sim

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
	"slices"
	"strings"
)

// Complex is the amplitude type.
type Complex = complex128

// State is a dense amplitude vector over 2^QubitCount basis states.
// It is treated as immutable: gates and measurements replace the vector
// held by an ExecutionContext instead of writing into it.
type State struct {
	qubitCount uint8
	amplitudes []Complex
}

// NewState wraps a copy of amplitudes. The length must be 2^qubitCount.
func NewState(qubitCount uint8, amplitudes []Complex) (*State, error) {
	if len(amplitudes) != dimension(qubitCount) {
		return nil, fmt.Errorf("%w: %d qubits, %d amplitudes", ErrAmplitudeCount, qubitCount, len(amplitudes))
	}
	amps := make([]Complex, len(amplitudes))
	copy(amps, amplitudes)
	return &State{qubitCount: qubitCount, amplitudes: amps}, nil
}

// NilState returns an all-zero amplitude buffer. It is not a physical state;
// kernels accumulate into it.
func NilState(qubitCount uint8) *State {
	return &State{qubitCount: qubitCount, amplitudes: make([]Complex, dimension(qubitCount))}
}

// ZeroState returns |00...0>.
func ZeroState(qubitCount uint8) *State {
	s := NilState(qubitCount)
	s.amplitudes[0] = 1
	return s
}

// UniformState returns an equal superposition over the set of given basis
// indices. Repeated indices count once.
func UniformState(qubitCount uint8, indices ...int) (*State, error) {
	if len(indices) == 0 {
		return nil, ErrEmptyUniformState
	}
	s := NilState(qubitCount)
	set := slices.Compact(slices.Sorted(slices.Values(indices)))
	amp := complex(math.Sqrt(1.0/float64(len(set))), 0)
	for _, idx := range set {
		if idx < 0 || idx >= len(s.amplitudes) {
			return nil, fmt.Errorf("%w: %d", ErrBasisIndexOutOfRange, idx)
		}
		s.amplitudes[idx] = amp
	}
	return s, nil
}

// BasisState returns the state with amplitude 1 at index and 0 elsewhere.
func BasisState(qubitCount uint8, index int) *State {
	s := NilState(qubitCount)
	s.amplitudes[index] = 1
	return s
}

// QubitCount is the register size of s.
func (s *State) QubitCount() uint8 {
	return s.qubitCount
}

// Len is the number of amplitudes, 2^QubitCount.
func (s *State) Len() int {
	return len(s.amplitudes)
}

// Amplitude returns the amplitude of basis state index.
func (s *State) Amplitude(index int) Complex {
	return s.amplitudes[index]
}

// Amplitudes returns a copy of the amplitude vector.
func (s *State) Amplitudes() []Complex {
	amps := make([]Complex, len(s.amplitudes))
	copy(amps, s.amplitudes)
	return amps
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	return &State{qubitCount: s.qubitCount, amplitudes: s.Amplitudes()}
}

// Norm returns the sum of squared magnitudes. It is 1 for physical states.
func (s *State) Norm() float64 {
	total := 0.0
	for _, a := range s.amplitudes {
		total += probability(a)
	}
	return total
}

// Probabilities returns |amplitude|^2 for every basis index.
func (s *State) Probabilities() []float64 {
	probs := make([]float64, len(s.amplitudes))
	for i, a := range s.amplitudes {
		probs[i] = probability(a)
	}
	return probs
}

// Equal reports whether both states have the same qubit count and every
// amplitude differs by at most tol.
func (s *State) Equal(other *State, tol float64) bool {
	if s.qubitCount != other.qubitCount {
		return false
	}
	for i := range s.amplitudes {
		if cmplx.Abs(s.amplitudes[i]-other.amplitudes[i]) > tol {
			return false
		}
	}
	return true
}

// QubitProbability is the marginal distribution of one qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal probability of reading 0 or 1 on
// each qubit.
func (s *State) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.qubitCount)
	for i, a := range s.amplitudes {
		p := probability(a)
		for q := range s.qubitCount {
			if i&Mask(s.qubitCount, q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}
	return probs
}

// BasisEntry describes one basis state with nonzero amplitude.
type BasisEntry struct {
	Index       int
	Amplitude   Complex
	Probability float64
	Phase       float64
	Hamming     int
}

// BasisStates lists the basis states whose probability exceeds threshold,
// in ascending index order.
func (s *State) BasisStates(threshold float64) []BasisEntry {
	entries := make([]BasisEntry, 0, len(s.amplitudes))
	for i, a := range s.amplitudes {
		p := probability(a)
		if p <= threshold {
			continue
		}
		entries = append(entries, BasisEntry{
			Index:       i,
			Amplitude:   a,
			Probability: p,
			Phase:       cmplx.Phase(a),
			Hamming:     bits.OnesCount(uint(i)),
		})
	}
	return entries
}

// Ket formats a basis index as |bits> with qubit 0 first.
func (s *State) Ket(index int) string {
	return fmt.Sprintf("|%0*b>", int(s.qubitCount), index)
}

func (s *State) String() string {
	threshold := 1e-6 / float64(len(s.amplitudes))
	var sb strings.Builder
	fmt.Fprintf(&sb, "State %d qubits :", s.qubitCount)
	for i, a := range s.amplitudes {
		if cmplx.Abs(a) < threshold {
			continue
		}
		fmt.Fprintf(&sb, " (%.6f,%.6f)x%s", real(a), imag(a), s.Ket(i))
	}
	return sb.String()
}

func probability(a Complex) float64 {
	return real(a)*real(a) + imag(a)*imag(a)
}
