// Completion: 100% - Loop idiom recognition complete
package main

// The peephole pass rewrites a closed catalogue of loop shapes whose entire
// effect can be computed without iterating. A rewrite is only applied when
// the closed form is equivalent for every possible starting cell value,
// including zero (the loop must not run). Anything not in the catalogue is
// kept as a loop with a recursively optimized body, never rejected.

// Peephole rewrites recognized loop idioms in the optimized stream
func Peephole(prog OptProgram) OptProgram {
	out := make(OptProgram, 0, len(prog))
	for _, oi := range prog {
		if oi.Op != OptLoop {
			out = append(out, oi)
			continue
		}
		if rewritten, ok := rewriteLoop(oi.Body); ok {
			out = append(out, rewritten)
			continue
		}
		out = append(out, OptInstr{Op: OptLoop, Body: Peephole(oi.Body)})
	}
	return out
}

// rewriteLoop matches one loop body against the idiom catalogue.
// The body must match exactly; I/O and nested loops always disqualify.
func rewriteLoop(body OptProgram) (OptInstr, bool) {
	switch len(body) {
	case 1:
		oi := body[0]
		// [-] and [+]: the cell steps by an odd amount until it wraps to
		// zero. An odd step is invertible mod 256, so zero is reached from
		// any starting value; an even step diverges for odd cells and must
		// keep looping.
		if oi.Op == OptAdd && oi.Delta&1 == 1 {
			return OptInstr{Op: OptSetZero}, true
		}
		// [>] and [<]: scan for the next zero cell
		if oi.Op == OptMove && oi.Delta != 0 {
			return OptInstr{Op: OptFindZero, Delta: oi.Delta}, true
		}
	case 4:
		// [->+<] and [>+<-] with any stride: drain the current cell into
		// the cell at that offset. Runs v iterations from value v, adding
		// v mod 256 to the target, so the closed form holds for all v.
		if n, ok := matchOffsetAdd(body); ok {
			return OptInstr{Op: OptOffsetAdd, Off: n}, true
		}
	}
	return OptInstr{}, false
}

// matchOffsetAdd recognizes the two rotations of the move-value idiom:
// add(-1) move(n) add(+1) move(-n) and move(n) add(+1) move(-n) add(-1)
func matchOffsetAdd(body OptProgram) (int, bool) {
	isAdd := func(oi OptInstr, delta int) bool {
		return oi.Op == OptAdd && oi.Delta == delta
	}
	isMove := func(oi OptInstr) bool {
		return oi.Op == OptMove && oi.Delta != 0
	}
	if isAdd(body[0], -1) && isMove(body[1]) && isAdd(body[2], 1) && isMove(body[3]) &&
		body[1].Delta == -body[3].Delta {
		return body[1].Delta, true
	}
	if isMove(body[0]) && isAdd(body[1], 1) && isMove(body[2]) && isAdd(body[3], -1) &&
		body[0].Delta == -body[2].Delta {
		return body[0].Delta, true
	}
	return 0, false
}
