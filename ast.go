// Completion: 100% - All AST nodes implemented
package main

import "strings"

// AST for the eight-symbol tape language. A program is an ordered sequence of
// instructions; loops own their body exclusively, so the tree is acyclic by
// construction and never shares nodes.

// Command is one of the six atomic tape operations.
type Command int

const (
	Left   Command = iota // < move the pointer one cell left
	Right                 // > move the pointer one cell right
	Up                    // + increment the current cell
	Down                  // - decrement the current cell
	Input                 // , read one byte into the current cell
	Output                // . write the current cell as one byte
)

func (c Command) String() string {
	switch c {
	case Left:
		return "<"
	case Right:
		return ">"
	case Up:
		return "+"
	case Down:
		return "-"
	case Input:
		return ","
	case Output:
		return "."
	default:
		return "?"
	}
}

// Node is implemented by every AST node
type Node interface {
	String() string
}

// Instruction is either an atomic operation or a loop
type Instruction interface {
	Node
	instructionNode()
}

// Op is a single atomic command
type Op struct {
	Cmd Command
}

func (o *Op) instructionNode() {}

func (o *Op) String() string {
	return o.Cmd.String()
}

// LoopNode is a bracketed loop that runs its body while the current cell is nonzero
type LoopNode struct {
	Body Program
}

func (l *LoopNode) instructionNode() {}

func (l *LoopNode) String() string {
	return "[" + l.Body.String() + "]"
}

// Program is an ordered, finite sequence of instructions.
// Insertion order is execution order.
type Program []Instruction

// String renders the program back to canonical source text
func (p Program) String() string {
	var out strings.Builder
	for _, inst := range p {
		out.WriteString(inst.String())
	}
	return out.String()
}
