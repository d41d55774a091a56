// Completion: 100% - ADD/LEA encodings complete
package main

// AddRegImm emits ADD r64, imm using the short imm8 form when it fits.
// A negative immediate encodes the subtraction directly.
func (o *Out) AddRegImm(dst reg, imm int32) {
	o.trace("add %s, %d", dst, imm)
	o.Write(rex(true, 0, dst))
	if imm >= -128 && imm <= 127 {
		o.Write(0x83)
		o.modRM(0, dst)
		o.Write(byte(imm))
		return
	}
	o.Write(0x81)
	o.modRM(0, dst)
	o.Write4s(imm)
}

// AddMem8Imm8 emits ADD byte [base+disp], imm8.
// Cell arithmetic wraps mod 256 by definition, which is exactly what an
// 8-bit add does, so increments and decrements share this one encoding.
func (o *Out) AddMem8Imm8(base reg, disp int32, imm byte) {
	o.trace("add byte [%s%+d], %d", base, disp, imm)
	o.rexIfNeeded(false, 0, base)
	o.Write(0x80)
	o.memRM(0, base, disp)
	o.Write(imm)
}

// AddMem8Reg8 emits ADD byte [base+disp], r8
func (o *Out) AddMem8Reg8(base reg, disp int32, src reg) {
	o.trace("add byte [%s%+d], %s", base, disp, src)
	o.rexIfNeeded(false, src, base)
	o.Write(0x00)
	o.memRM(src, base, disp)
}

// LeaRegMem emits LEA r64, [base+disp]
func (o *Out) LeaRegMem(dst, base reg, disp int32) {
	o.trace("lea %s, [%s%+d]", dst, base, disp)
	o.Write(rex(true, dst, base))
	o.Write(0x8D)
	o.memRM(dst, base, disp)
}

// LeaRegRipForward emits LEA r64, [rip+rel32] with a placeholder offset
// and returns the patch position; PatchForward resolves it to a later
// code offset, which the processor turns into an absolute address.
func (o *Out) LeaRegRipForward(dst reg) int {
	o.trace("lea %s, [rip+fwd]", dst)
	o.Write(rex(true, dst, 0))
	o.Write(0x8D)
	o.Write(byte(dst&7)<<3 | 0x05)
	pos := o.Len()
	o.Write4s(0)
	return pos
}
