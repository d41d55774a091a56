// Completion: 100% - Optimized-stream interpreter complete
package main

// RunOptimized executes the optimized instruction stream with bounds
// checking. It is the execution engine on platforms without the native
// backend, and the middle rung of the differential tests: it must agree
// byte for byte with both the reference interpreter and generated code.
func RunOptimized(prog OptProgram, t *Tape) error {
	for i := range prog {
		oi := &prog[i]
		switch oi.Op {
		case OptMove:
			p := t.pos + oi.Delta
			if p < 0 {
				return ErrPointerUnderflow
			}
			if p >= len(t.cells) {
				return ErrPointerOverflow
			}
			t.pos = p
		case OptAdd:
			t.cells[t.pos] += byte(oi.Delta)
		case OptIn:
			if b, ok := t.readByte(); ok {
				t.cells[t.pos] = b
			}
		case OptOut:
			if err := t.writeByte(t.cells[t.pos]); err != nil {
				return err
			}
		case OptSetZero:
			t.cells[t.pos] = 0
		case OptFindZero:
			for t.cells[t.pos] != 0 {
				p := t.pos + oi.Delta
				if p < 0 {
					return ErrPointerUnderflow
				}
				if p >= len(t.cells) {
					return ErrPointerOverflow
				}
				t.pos = p
			}
		case OptOffsetAdd:
			if v := t.cells[t.pos]; v != 0 {
				idx, err := t.offset(oi.Off)
				if err != nil {
					return err
				}
				t.cells[idx] += v
				t.cells[t.pos] = 0
			}
		case OptLoop:
			for t.cells[t.pos] != 0 {
				if err := RunOptimized(oi.Body, t); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// offset bounds-checks pointer+off and returns the cell index
func (t *Tape) offset(off int) (int, error) {
	idx := t.pos + off
	if idx < 0 {
		return 0, ErrPointerUnderflow
	}
	if idx >= len(t.cells) {
		return 0, ErrPointerOverflow
	}
	return idx, nil
}
