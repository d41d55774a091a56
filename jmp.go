// Completion: 100% - Jump encodings and back-patching complete
package main

// Jump condition codes. The value is the second opcode byte of the
// two-byte near-jump form (0x0F 0x8x rel32).
type JumpCondition byte

const (
	JumpBelow        JumpCondition = 0x82 // jb, unsigned <
	JumpAboveOrEqual JumpCondition = 0x83 // jae, unsigned >=
	JumpEqual        JumpCondition = 0x84 // je/jz
	JumpNotEqual     JumpCondition = 0x85 // jne/jnz
)

func (c JumpCondition) String() string {
	switch c {
	case JumpBelow:
		return "jb"
	case JumpAboveOrEqual:
		return "jae"
	case JumpEqual:
		return "je"
	case JumpNotEqual:
		return "jne"
	default:
		return "j?"
	}
}

// JumpForward emits a conditional jump with a placeholder offset and
// returns the position of the rel32 for PatchForward. Always the near
// (rel32) form: loop bodies can be arbitrarily long, and a fixed-size
// placeholder keeps patching trivial.
func (o *Out) JumpForward(cond JumpCondition) int {
	o.trace("%s fwd", cond)
	o.Write(0x0F)
	o.Write(byte(cond))
	pos := o.Len()
	o.Write4s(0)
	return pos
}

// PatchForward resolves a placeholder from JumpForward to jump to the
// current offset
func (o *Out) PatchForward(pos int) {
	o.Patch32(pos, int32(o.Len()-(pos+4)))
}

// JumpBackTo emits a conditional jump to an already-emitted offset
func (o *Out) JumpBackTo(cond JumpCondition, target int) {
	o.trace("%s %d", cond, target)
	o.Write(0x0F)
	o.Write(byte(cond))
	o.Write4s(int32(target - (o.Len() + 4)))
}

// JmpBackTo emits an unconditional jump to an already-emitted offset
func (o *Out) JmpBackTo(target int) {
	o.trace("jmp %d", target)
	o.Write(0xE9)
	o.Write4s(int32(target - (o.Len() + 4)))
}

// JmpMem emits an indirect JMP through [base+disp]
func (o *Out) JmpMem(base reg, disp int32) {
	o.trace("jmp [%s%+d]", base, disp)
	o.rexIfNeeded(false, 0, base)
	o.Write(0xFF)
	o.memRM(4, base, disp)
}
