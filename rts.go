// Completion: 100% - Tape runtime complete
package main

import "io"

// DefaultTapeSize is the classic 30000-cell tape
const DefaultTapeSize = 30000

// Tape is the memory a program runs against: a fixed-capacity array of
// byte cells, a pointer index, and the host I/O endpoints. One tape must
// not be shared by concurrent invocations; concurrent runs of the same
// artifact each need their own tape.
type Tape struct {
	cells []byte
	pos   int
	in    io.Reader
	out   io.Writer
}

// NewTape allocates a zeroed tape with the pointer at cell 0
func NewTape(size int, in io.Reader, out io.Writer) *Tape {
	if size < 1 {
		size = 1
	}
	return &Tape{cells: make([]byte, size), in: in, out: out}
}

// readByte reads one input byte. The second result is false at
// end-of-stream, in which case the current cell is left unchanged.
func (t *Tape) readByte() (byte, bool) {
	if t.in == nil {
		return 0, false
	}
	var b [1]byte
	if _, err := io.ReadFull(t.in, b[:]); err != nil {
		return 0, false
	}
	return b[0], true
}

// writeByte writes one output byte
func (t *Tape) writeByte(b byte) error {
	if t.out == nil {
		return nil
	}
	_, err := t.out.Write([]byte{b})
	return err
}
