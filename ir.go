// Completion: 100% - Optimized instruction stream complete
package main

import (
	"fmt"
	"strings"
)

// The optimized instruction stream produced by the coalescing and peephole
// passes and consumed by the interpreters and the code generator. Each pass
// is a pure transform: it builds a new stream and never mutates its input.

// OptOp tags an optimized instruction
type OptOp int

const (
	// OptMove moves the pointer by Delta cells (negative is left)
	OptMove OptOp = iota
	// OptAdd adds Delta to the current cell, mod 256
	OptAdd
	// OptIn reads one byte into the current cell (EOF leaves it unchanged)
	OptIn
	// OptOut writes the current cell as one byte
	OptOut
	// OptSetZero stores zero into the current cell
	OptSetZero
	// OptFindZero moves the pointer by Delta cells at a time until it
	// rests on a zero cell
	OptFindZero
	// OptOffsetAdd adds the current cell into the cell at pointer+Off and
	// zeroes the current cell; does nothing when the current cell is zero
	OptOffsetAdd
	// OptLoop runs Body while the current cell is nonzero
	OptLoop
)

// OptInstr is one optimized instruction. Which fields are meaningful
// depends on Op; unused fields stay zero.
type OptInstr struct {
	Op    OptOp
	Delta int        // OptMove, OptAdd (signed, mod 256 for cells), OptFindZero
	Off   int        // OptOffsetAdd only
	Body  OptProgram // OptLoop only; owned exclusively by this loop
}

// OptProgram is an ordered sequence of optimized instructions
type OptProgram []OptInstr

func (oi OptInstr) String() string {
	switch oi.Op {
	case OptMove:
		return fmt.Sprintf("move(%d)", oi.Delta)
	case OptAdd:
		return fmt.Sprintf("add(%d)", oi.Delta)
	case OptIn:
		return "in"
	case OptOut:
		return "out"
	case OptSetZero:
		return "zero"
	case OptFindZero:
		return fmt.Sprintf("scan(%d)", oi.Delta)
	case OptOffsetAdd:
		return fmt.Sprintf("moveadd(%d)", oi.Off)
	case OptLoop:
		return "loop[" + oi.Body.String() + "]"
	default:
		return "?"
	}
}

func (p OptProgram) String() string {
	parts := make([]string, 0, len(p))
	for _, oi := range p {
		parts = append(parts, oi.String())
	}
	return strings.Join(parts, " ")
}
