// Completion: 100% - Reference interpreter complete
package main

// Interpret runs a syntax tree directly, without any optimization passes.
// It is the reference semantics the optimized engines are tested against:
// always bounds-checked, 8-bit wrapping cells, end-of-stream leaves the
// cell unchanged.
func Interpret(prog Program, t *Tape) error {
	for _, inst := range prog {
		switch n := inst.(type) {
		case *Op:
			switch n.Cmd {
			case Left:
				if t.pos == 0 {
					return ErrPointerUnderflow
				}
				t.pos--
			case Right:
				if t.pos == len(t.cells)-1 {
					return ErrPointerOverflow
				}
				t.pos++
			case Up:
				t.cells[t.pos]++
			case Down:
				t.cells[t.pos]--
			case Input:
				if b, ok := t.readByte(); ok {
					t.cells[t.pos] = b
				}
			case Output:
				if err := t.writeByte(t.cells[t.pos]); err != nil {
					return err
				}
			}
		case *LoopNode:
			for t.cells[t.pos] != 0 {
				if err := Interpret(n.Body, t); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
