// Completion: 100% - Coalescing pass complete
package main

// The coalescing pass (run-length encoding) merges runs of pointer moves
// into a single counted move and runs of cell arithmetic into a single
// counted add. Runs end at I/O, at loops, and at any unlike command. A run
// with net delta zero cancels out and is dropped.

// Coalesce lowers a syntax tree into the optimized instruction stream
func Coalesce(prog Program) OptProgram {
	out := make(OptProgram, 0, len(prog))
	for i := 0; i < len(prog); {
		switch inst := prog[i].(type) {
		case *Op:
			switch inst.Cmd {
			case Left, Right:
				delta := 0
				for ; i < len(prog); i++ {
					op, ok := prog[i].(*Op)
					if !ok {
						break
					}
					if op.Cmd == Left {
						delta--
					} else if op.Cmd == Right {
						delta++
					} else {
						break
					}
				}
				if delta != 0 {
					out = append(out, OptInstr{Op: OptMove, Delta: delta})
				}
			case Up, Down:
				delta := 0
				for ; i < len(prog); i++ {
					op, ok := prog[i].(*Op)
					if !ok {
						break
					}
					if op.Cmd == Up {
						delta++
					} else if op.Cmd == Down {
						delta--
					} else {
						break
					}
				}
				if delta&0xff != 0 {
					out = append(out, OptInstr{Op: OptAdd, Delta: delta})
				}
			case Input:
				out = append(out, OptInstr{Op: OptIn})
				i++
			case Output:
				out = append(out, OptInstr{Op: OptOut})
				i++
			}
		case *LoopNode:
			out = append(out, OptInstr{Op: OptLoop, Body: Coalesce(inst.Body)})
			i++
		}
	}
	return out
}
