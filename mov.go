// Completion: 100% - MOV encodings complete
package main

// MovRegReg64 emits MOV dst, src (64-bit)
func (o *Out) MovRegReg64(dst, src reg) {
	o.trace("mov %s, %s", dst, src)
	o.Write(rex(true, src, dst))
	o.Write(0x89)
	o.modRM(src, dst)
}

// MovRegImm32 emits MOV r32, imm32 (zero-extends into the full register)
func (o *Out) MovRegImm32(dst reg, imm int32) {
	o.trace("mov %s, %d", dst, imm)
	if dst&8 != 0 {
		o.Write(0x41)
	}
	o.Write(0xB8 + byte(dst&7))
	o.Write4s(imm)
}

// MovRegMem64 emits MOV r64, [base+disp]
func (o *Out) MovRegMem64(dst, base reg, disp int32) {
	o.trace("mov %s, [%s%+d]", dst, base, disp)
	o.Write(rex(true, dst, base))
	o.Write(0x8B)
	o.memRM(dst, base, disp)
}

// MovMemReg64 emits MOV [base+disp], r64
func (o *Out) MovMemReg64(base reg, disp int32, src reg) {
	o.trace("mov [%s%+d], %s", base, disp, src)
	o.Write(rex(true, src, base))
	o.Write(0x89)
	o.memRM(src, base, disp)
}

// MovMemReg32 emits MOV [base+disp], r32
func (o *Out) MovMemReg32(base reg, disp int32, src reg) {
	o.trace("mov [%s%+d], %s", base, disp, src)
	o.rexIfNeeded(false, src, base)
	o.Write(0x89)
	o.memRM(src, base, disp)
}

// MovReg8Mem emits MOV r8, [base+disp]
func (o *Out) MovReg8Mem(dst, base reg, disp int32) {
	o.trace("mov %s, [%s%+d]", dst, base, disp)
	o.rexIfNeeded(false, dst, base)
	o.Write(0x8A)
	o.memRM(dst, base, disp)
}

// MovMem8Imm8 emits MOV byte [base+disp], imm8
func (o *Out) MovMem8Imm8(base reg, disp int32, imm byte) {
	o.trace("mov byte [%s%+d], %d", base, disp, imm)
	o.rexIfNeeded(false, 0, base)
	o.Write(0xC6)
	o.memRM(0, base, disp)
	o.Write(imm)
}
