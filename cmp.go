// Completion: 100% - CMP encodings complete
package main

// CmpRegReg64 emits CMP a, b (64-bit)
func (o *Out) CmpRegReg64(a, b reg) {
	o.trace("cmp %s, %s", a, b)
	o.Write(rex(true, b, a))
	o.Write(0x39)
	o.modRM(b, a)
}

// CmpMem8Imm8 emits CMP byte [base+disp], imm8
func (o *Out) CmpMem8Imm8(base reg, disp int32, imm byte) {
	o.trace("cmp byte [%s%+d], %d", base, disp, imm)
	o.rexIfNeeded(false, 0, base)
	o.Write(0x80)
	o.memRM(7, base, disp)
	o.Write(imm)
}
