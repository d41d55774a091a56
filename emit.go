// Completion: 100% - Code buffer complete
package main

import (
	"bytes"
	"fmt"
	"os"
)

// Out collects emitted machine code. Forward branches are written with a
// placeholder rel32 and rewritten through Patch32 once the target offset is
// known. With VerboseMode set, every emitted byte is traced to stderr.

type Out struct {
	text bytes.Buffer
}

func (o *Out) Write(b byte) int {
	o.text.WriteByte(b)
	if VerboseMode {
		fmt.Fprintf(os.Stderr, " %02x", b)
	}
	return 1
}

// Write4s writes a 32-bit signed immediate, little-endian
func (o *Out) Write4s(v int32) int {
	o.Write(byte(v))
	o.Write(byte(v >> 8))
	o.Write(byte(v >> 16))
	o.Write(byte(v >> 24))
	return 4
}

// Len returns the current offset, which is where the next byte lands
func (o *Out) Len() int {
	return o.text.Len()
}

// Patch32 rewrites the 4 bytes at pos with a new rel32 value
func (o *Out) Patch32(pos int, v int32) {
	b := o.text.Bytes()
	b[pos] = byte(v)
	b[pos+1] = byte(v >> 8)
	b[pos+2] = byte(v >> 16)
	b[pos+3] = byte(v >> 24)
}

// Bytes returns the emitted code
func (o *Out) Bytes() []byte {
	return o.text.Bytes()
}

// trace prints a mnemonic before its bytes when VerboseMode is set
func (o *Out) trace(format string, args ...any) {
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "\n"+format+":", args...)
	}
}
