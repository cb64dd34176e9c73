// Package sim is a dense state-vector simulator for small quantum registers.
//
// Qubit 0 is the most significant bit of a basis index. Circuits are built
// and validated by a Builder. Executing one threads an ExecutionContext
// through its elements; loops read the measurement counts kept there to
// decide when to stop.
package sim
