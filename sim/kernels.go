package sim

import "math"

// Every kernel reads the context's current vector and writes a fresh one,
// so no amplitude is overwritten while it may still be read.

var hFactor = complex(1.0/math.Sqrt2, 0)

// applyControlledX gathers each destination from its target-flipped partner.
func applyControlledX(ctx *ExecutionContext, target uint8, controls []uint8) {
	controlMask := ctx.controlMask(controls)
	targetMask := ctx.mask(target)
	in := ctx.current.amplitudes
	out := NilState(ctx.QubitCount())
	for i := range out.amplitudes {
		src := i
		if controlsSet(i, controlMask) {
			src = i ^ targetMask
		}
		out.amplitudes[i] = in[src]
	}
	ctx.replace(out)
}

func applyControlledY(ctx *ExecutionContext, target uint8, controls []uint8) {
	controlMask := ctx.controlMask(controls)
	targetMask := ctx.mask(target)
	in := ctx.current.amplitudes
	out := NilState(ctx.QubitCount())
	for src, amp := range in {
		if !controlsSet(src, controlMask) {
			out.amplitudes[src] = amp
			continue
		}
		// Y|0> = i|1>, Y|1> = -i|0>
		if src&targetMask == 0 {
			out.amplitudes[src^targetMask] = 1i * amp
		} else {
			out.amplitudes[src^targetMask] = -1i * amp
		}
	}
	ctx.replace(out)
}

func applyControlledZ(ctx *ExecutionContext, target uint8, controls []uint8) {
	controlMask := ctx.controlMask(controls)
	targetMask := ctx.mask(target)
	in := ctx.current.amplitudes
	out := NilState(ctx.QubitCount())
	for i, amp := range in {
		if controlsSet(i, controlMask) && i&targetMask != 0 {
			amp = -amp
		}
		out.amplitudes[i] = amp
	}
	ctx.replace(out)
}

// applyControlledH accumulates because two sources feed the same pair of
// destinations.
func applyControlledH(ctx *ExecutionContext, target uint8, controls []uint8) {
	controlMask := ctx.controlMask(controls)
	targetMask := ctx.mask(target)
	in := ctx.current.amplitudes
	out := NilState(ctx.QubitCount())
	for src, amp := range in {
		if !controlsSet(src, controlMask) {
			out.amplitudes[src] += amp
			continue
		}
		amp *= hFactor
		cleared := src &^ targetMask
		set := src | targetMask
		out.amplitudes[cleared] += amp
		if src&targetMask != 0 {
			out.amplitudes[set] -= amp
		} else {
			out.amplitudes[set] += amp
		}
	}
	ctx.replace(out)
}

func applyControlledSwap(ctx *ExecutionContext, target1, target2 uint8, controls []uint8) {
	controlMask := ctx.controlMask(controls)
	mask1 := ctx.mask(target1)
	mask2 := ctx.mask(target2)
	in := ctx.current.amplitudes
	out := NilState(ctx.QubitCount())
	for i := range out.amplitudes {
		src := i
		if controlsSet(i, controlMask) {
			src = swapBits(i, mask1, mask2)
		}
		out.amplitudes[i] = in[src]
	}
	ctx.replace(out)
}

// swapBits exchanges the bits selected by mask1 and mask2.
func swapBits(index, mask1, mask2 int) int {
	swapped := index &^ (mask1 | mask2)
	if index&mask1 != 0 {
		swapped |= mask2
	}
	if index&mask2 != 0 {
		swapped |= mask1
	}
	return swapped
}
