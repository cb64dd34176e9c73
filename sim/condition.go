package sim

import "fmt"

// ConditionKind selects the StopCondition variant.
type ConditionKind uint8

const (
	CondOnce ConditionKind = iota
	CondMaxIteration
	CondMaxZeroSampling
	CondMaxOneSampling
	CondOr
	CondAnd
)

// StopCondition decides when a Loop halts. It holds no state of its own;
// everything it reads comes from the iteration index and the context.
type StopCondition struct {
	Kind ConditionKind
	ID   string
	N    uint32
	Lhs  *StopCondition
	Rhs  *StopCondition
}

// Once stops after the first iteration.
func Once() StopCondition {
	return StopCondition{Kind: CondOnce}
}

// MaxIteration stops after n iterations.
func MaxIteration(n uint32) StopCondition {
	return StopCondition{Kind: CondMaxIteration, N: n}
}

// MaxZeroSampling stops once measurement id has read 0 at least n times.
func MaxZeroSampling(id string, n uint32) StopCondition {
	return StopCondition{Kind: CondMaxZeroSampling, ID: id, N: n}
}

// MaxOneSampling stops once measurement id has read 1 at least n times.
func MaxOneSampling(id string, n uint32) StopCondition {
	return StopCondition{Kind: CondMaxOneSampling, ID: id, N: n}
}

// Or stops when either side holds.
func Or(lhs, rhs StopCondition) StopCondition {
	return StopCondition{Kind: CondOr, Lhs: &lhs, Rhs: &rhs}
}

// And stops when both sides hold.
func And(lhs, rhs StopCondition) StopCondition {
	return StopCondition{Kind: CondAnd, Lhs: &lhs, Rhs: &rhs}
}

// Evaluate reports whether the loop should stop before running iteration.
// Both sides of Or/And are always evaluated.
func (s StopCondition) Evaluate(iteration uint32, ctx *ExecutionContext) bool {
	switch s.Kind {
	case CondOnce:
		return iteration >= 1
	case CondMaxIteration:
		return iteration >= s.N
	case CondMaxZeroSampling:
		return ctx.Zeros(s.ID) >= s.N
	case CondMaxOneSampling:
		return ctx.Ones(s.ID) >= s.N
	case CondOr:
		lhs := s.Lhs.Evaluate(iteration, ctx)
		rhs := s.Rhs.Evaluate(iteration, ctx)
		return lhs || rhs
	case CondAnd:
		lhs := s.Lhs.Evaluate(iteration, ctx)
		rhs := s.Rhs.Evaluate(iteration, ctx)
		return lhs && rhs
	}
	panic(fmt.Sprintf("sim: unknown stop condition kind %d", s.Kind))
}

func (s StopCondition) String() string {
	switch s.Kind {
	case CondOnce:
		return "once"
	case CondMaxIteration:
		return fmt.Sprintf("iterations>=%d", s.N)
	case CondMaxZeroSampling:
		return fmt.Sprintf("zeros(%s)>=%d", s.ID, s.N)
	case CondMaxOneSampling:
		return fmt.Sprintf("ones(%s)>=%d", s.ID, s.N)
	case CondOr:
		return fmt.Sprintf("(%s or %s)", s.Lhs, s.Rhs)
	case CondAnd:
		return fmt.Sprintf("(%s and %s)", s.Lhs, s.Rhs)
	}
	return fmt.Sprintf("StopCondition(%d)", s.Kind)
}
