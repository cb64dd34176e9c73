package sim

// Qubit 0 is the most significant bit of a basis index.

// MaxQubits bounds the register size. A state of n qubits holds 2^n
// complex128 amplitudes, so 30 qubits already takes 16 GiB.
const MaxQubits = 30

// Mask returns the single bit of a basis index that holds qubit q
// in a register of the given size.
func Mask(qubitCount, q uint8) int {
	return 1 << (qubitCount - 1 - q)
}

// ControlMask ORs together the masks of all given qubits. An index satisfies
// the controls when index&mask == mask, so an empty set always satisfies.
func ControlMask(qubitCount uint8, qubits []uint8) int {
	mask := 0
	for _, q := range qubits {
		mask |= Mask(qubitCount, q)
	}
	return mask
}

func controlsSet(index, controlMask int) bool {
	return index&controlMask == controlMask
}

// dimension is 2^qubitCount.
func dimension(qubitCount uint8) int {
	return 1 << qubitCount
}
